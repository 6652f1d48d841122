package scfdata

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "scfstats/internal/errors"
)

const recordHeader = "yy1,y1,wgt,age,edcl,norminc,liq,cds,nmmf,stocks,bond,ccbal,install,veh_inst"

func writeRecordCSV(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.csv")
	content := recordHeader + "\n"
	for _, row := range rows {
		content += row + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRecordsCSV(t *testing.T) {
	t.Run("parses fields", func(t *testing.T) {
		path := writeRecordCSV(t,
			"1,11,2.5,40,4,55000,1200,0,300,1000,0,450,6000,2000")

		records, err := LoadRecords(path)
		require.NoError(t, err)
		require.Len(t, records, 1)

		r := records[0]
		assert.Equal(t, int64(1), r.UnitID)
		assert.Equal(t, int64(11), r.RecordID)
		assert.Equal(t, 1, r.ImplicateID)
		assert.InDelta(t, 2.5, r.Weight, 1e-12)
		assert.InDelta(t, 40, r.Age, 1e-12)
		assert.Equal(t, 4, r.EducationCode)
		assert.InDelta(t, 55000, r.Income, 1e-12)
		assert.InDelta(t, 1200, r.LiquidCash, 1e-12)
		assert.InDelta(t, 450, r.CreditCardBalance, 1e-12)
		assert.InDelta(t, 2000, r.VehicleInstallmentDebt, 1e-12)
	})

	t.Run("empty money cells default to zero", func(t *testing.T) {
		path := writeRecordCSV(t, "1,12,2.5,40,4,55000,,,,,,,,")

		records, err := LoadRecords(path)
		require.NoError(t, err)
		assert.Zero(t, records[0].LiquidCash)
		assert.Zero(t, records[0].CreditCardBalance)
		assert.Equal(t, 2, records[0].ImplicateID)
	})

	t.Run("missing column is fatal", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "records.csv")
		require.NoError(t, os.WriteFile(path, []byte("yy1,y1,wgt\n1,11,2.5\n"), 0o644))

		_, err := LoadRecords(path)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIntegrity))
	})

	t.Run("implicate outside 1..5 is fatal", func(t *testing.T) {
		path := writeRecordCSV(t, "1,17,2.5,40,4,55000,0,0,0,0,0,0,0,0")

		_, err := LoadRecords(path)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIntegrity))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := LoadRecords("records.dta")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	})
}

func TestLoadRecordsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.xlsx")

	f := excelize.NewFile()
	header := []interface{}{"yy1", "y1", "wgt", "age", "edcl", "norminc",
		"liq", "cds", "nmmf", "stocks", "bond", "ccbal", "install", "veh_inst"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	row := []interface{}{3, 34, 1.75, 29, 2, 41000.5, 800, 0, 0, 250, 0, 120, 3000, 1500}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, int64(3), r.UnitID)
	assert.Equal(t, 4, r.ImplicateID)
	assert.InDelta(t, 41000.5, r.Income, 1e-9)
	assert.InDelta(t, 1500, r.VehicleInstallmentDebt, 1e-9)
}

func TestLoadBalanceAnswers(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "answers.csv")
		content := "y1,x432\n11,1\n12,5\n13,\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		answers, err := LoadBalanceAnswers(path)
		require.NoError(t, err)
		require.Len(t, answers, 3)

		assert.Equal(t, int64(1), answers[0].UnitID)
		assert.Equal(t, 1, answers[0].ImplicateID)
		assert.Equal(t, 1, answers[0].PaysInFull)
		assert.Equal(t, 5, answers[1].PaysInFull)
		assert.Zero(t, answers[2].PaysInFull)
	})

	t.Run("round trip with extract matches merge keys", func(t *testing.T) {
		recordsPath := writeRecordCSV(t, "8,81,1.0,30,1,10000,0,0,0,0,0,500,0,0")
		answersPath := filepath.Join(t.TempDir(), "answers.csv")
		require.NoError(t, os.WriteFile(answersPath, []byte("y1,x432\n81,1\n"), 0o644))

		records, err := LoadRecords(recordsPath)
		require.NoError(t, err)
		answers, err := LoadBalanceAnswers(answersPath)
		require.NoError(t, err)

		merged, err := MergeBalances(records, answers)
		require.NoError(t, err)
		assert.Zero(t, merged[0].CreditCardBalance)
	})
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"", 0, false},
		{"12.5", 12.5, false},
		{"1,234.5", 1234.5, false},
		{"-40", -40, false},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			v, err := parseFloat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, v, 1e-12)
		})
	}
}
