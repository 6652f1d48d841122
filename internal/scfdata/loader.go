package scfdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"scfstats/internal/errors"
)

// Column names follow the Federal Reserve summary-extract naming so that
// a file produced by converting rscfp2004 straight to csv/xlsx loads
// without renaming.
const (
	colUnitID      = "yy1"
	colRecordID    = "y1"
	colWeight      = "wgt"
	colAge         = "age"
	colEducation   = "edcl"
	colIncome      = "norminc"
	colLiquid      = "liq"
	colCDs         = "cds"
	colMutualFunds = "nmmf"
	colStocks      = "stocks"
	colBonds       = "bond"
	colCCBalance   = "ccbal"
	colInstallment = "install"
	colVehicleInst = "veh_inst"

	colPaysInFull = "x432"
)

// LoadRecords reads the extract table from a .csv or .xlsx file,
// detected by extension.
func LoadRecords(path string) ([]RawRecord, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	return parseRecords(rows, path)
}

// LoadBalanceAnswers reads the auxiliary credit-card questionnaire table
// from a .csv or .xlsx file, detected by extension.
func LoadBalanceAnswers(path string) ([]BalanceAnswer, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	return parseBalanceAnswers(rows, path)
}

// readTable loads all rows of a tabular file as strings. For workbooks
// the first sheet is used.
func readTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, errors.NewParsingError("failed to open workbook", err).
				WithContext("path", path)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.NewParsingError("workbook has no sheets", nil).
				WithContext("path", path)
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, errors.NewParsingError("failed to read sheet", err).
				WithContext("path", path).
				WithContext("sheet", sheets[0])
		}
		return rows, nil
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, errors.NewParsingError("failed to open file", err).
				WithContext("path", path)
		}
		defer file.Close()

		reader := csv.NewReader(file)
		reader.FieldsPerRecord = -1
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, errors.NewParsingError("failed to read csv", err).
				WithContext("path", path)
		}
		return rows, nil
	default:
		return nil, errors.NewParsingError(
			fmt.Sprintf("unsupported file extension %q", filepath.Ext(path)), nil).
			WithContext("path", path)
	}
}

// headerIndex maps lower-cased column names to their positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

func requireColumns(idx map[string]int, path string, names ...string) error {
	for _, name := range names {
		if _, ok := idx[name]; !ok {
			return errors.NewIntegrityError("required column missing", nil).
				WithContext("path", path).
				WithContext("column", name)
		}
	}
	return nil
}

func parseRecords(rows [][]string, path string) ([]RawRecord, error) {
	if len(rows) < 2 {
		return nil, errors.NewParsingError("no data rows", nil).WithContext("path", path)
	}

	idx := headerIndex(rows[0])
	required := []string{
		colUnitID, colRecordID, colWeight, colAge, colEducation, colIncome,
		colLiquid, colCDs, colMutualFunds, colStocks, colBonds,
		colCCBalance, colInstallment, colVehicleInst,
	}
	if err := requireColumns(idx, path, required...); err != nil {
		return nil, err
	}

	records := make([]RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after header

		cell := func(name string) string {
			j := idx[name]
			if j >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[j])
		}

		unitID, err := parseID(cell(colUnitID))
		if err != nil {
			return nil, errors.NewParsingError("invalid unit id", err).
				WithContext("path", path).WithContext("row", rowNum)
		}
		recordID, err := parseID(cell(colRecordID))
		if err != nil {
			return nil, errors.NewParsingError("invalid record id", err).
				WithContext("path", path).WithContext("row", rowNum)
		}
		implicateID, err := implicateFromIDs(unitID, recordID)
		if err != nil {
			return nil, errors.NewIntegrityError("record id inconsistent with unit id", err).
				WithContext("path", path).WithContext("row", rowNum).
				WithContext("unit_id", unitID).WithContext("record_id", recordID)
		}

		r := RawRecord{UnitID: unitID, RecordID: recordID, ImplicateID: implicateID}

		numeric := []struct {
			name string
			dst  *float64
		}{
			{colWeight, &r.Weight},
			{colAge, &r.Age},
			{colIncome, &r.Income},
			{colLiquid, &r.LiquidCash},
			{colCDs, &r.CertificatesOfDeposit},
			{colMutualFunds, &r.MutualFunds},
			{colStocks, &r.Stocks},
			{colBonds, &r.Bonds},
			{colCCBalance, &r.CreditCardBalance},
			{colInstallment, &r.InstallmentDebt},
			{colVehicleInst, &r.VehicleInstallmentDebt},
		}
		for _, field := range numeric {
			v, err := parseFloat(cell(field.name))
			if err != nil {
				return nil, errors.NewParsingError(
					fmt.Sprintf("invalid value for column %q", field.name), err).
					WithContext("path", path).WithContext("row", rowNum)
			}
			*field.dst = v
		}

		eduCell := cell(colEducation)
		edu, err := strconv.Atoi(eduCell)
		if err != nil {
			return nil, errors.NewParsingError("invalid education code", err).
				WithContext("path", path).WithContext("row", rowNum).
				WithContext("value", eduCell)
		}
		r.EducationCode = edu

		records = append(records, r)
	}

	return records, nil
}

func parseBalanceAnswers(rows [][]string, path string) ([]BalanceAnswer, error) {
	if len(rows) < 2 {
		return nil, errors.NewParsingError("no data rows", nil).WithContext("path", path)
	}

	idx := headerIndex(rows[0])
	if err := requireColumns(idx, path, colRecordID, colPaysInFull); err != nil {
		return nil, err
	}

	answers := make([]BalanceAnswer, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2

		cell := func(name string) string {
			j := idx[name]
			if j >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[j])
		}

		recordID, err := parseID(cell(colRecordID))
		if err != nil {
			return nil, errors.NewParsingError("invalid record id", err).
				WithContext("path", path).WithContext("row", rowNum)
		}
		unitID := recordID / 10
		implicateID, err := implicateFromIDs(unitID, recordID)
		if err != nil {
			return nil, errors.NewIntegrityError("record id inconsistent with unit id", err).
				WithContext("path", path).WithContext("row", rowNum).
				WithContext("record_id", recordID)
		}

		answer := 0
		if raw := cell(colPaysInFull); raw != "" {
			v, err := parseFloat(raw)
			if err != nil {
				return nil, errors.NewParsingError("invalid questionnaire answer", err).
					WithContext("path", path).WithContext("row", rowNum).
					WithContext("value", raw)
			}
			answer = int(v)
		}

		answers = append(answers, BalanceAnswer{
			UnitID:      unitID,
			ImplicateID: implicateID,
			PaysInFull:  answer,
		})
	}

	return answers, nil
}

// implicateFromIDs recovers the implicate number from the extract's id
// scheme: y1 = yy1*10 + implicate, implicate in 1..5.
func implicateFromIDs(unitID, recordID int64) (int, error) {
	implicate := recordID - unitID*10
	if implicate < 1 || implicate > 5 {
		return 0, fmt.Errorf("derived implicate %d outside 1..5", implicate)
	}
	return int(implicate), nil
}

func parseID(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty id")
	}
	// Workbook cells may render integer ids as floats.
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
