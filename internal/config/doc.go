// Package config provides configuration loading and the fixed methodology
// constants for the SCF liquid-wealth analysis.
//
// Configuration is loaded from environment variables (prefix SCF) and an
// optional YAML file (scfstats.yaml or SCF_CONFIG_FILE), with environment
// values taking precedence, and is validated with struct tags before use.
//
// The constants in constants.go encode documented methodological
// conventions (the age band, the income-tail trim, the cash-equivalent
// multiplier). They are named so that callers never repeat the literals,
// but they are not meant to vary between published runs.
package config
