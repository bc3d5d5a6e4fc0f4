// Package config loads and validates SynthFS configuration from YAML files
// and SYNTHFS_* environment variables, in that order of precedence.
package config
