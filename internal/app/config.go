package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RepoPath   string // directory of .gocd.yaml definitions to parse
	ExportPath string // pipeline entity JSON file to export instead

	Pattern   string // glob selecting config files, empty means the default
	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.RepoPath == "" && cfg.ExportPath == "" {
		return nil, errors.New("either RepoPath or ExportPath is required and cannot be empty")
	}
	if cfg.RepoPath != "" && cfg.ExportPath != "" {
		return nil, errors.New("RepoPath and ExportPath are mutually exclusive")
	}

	// Future validations for other fields can be added here.
	// For example: checking if Pattern is a valid glob.

	return &cfg, nil
}
