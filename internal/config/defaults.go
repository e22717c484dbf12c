package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

// defaultDocuments holds the table documents written by `vault init`.
//
//go:embed defaults/config.json defaults/techniques.json
var defaultDocuments embed.FS

// DefaultTableDocuments returns the embedded config.json and techniques.json.
func DefaultTableDocuments() (primary, techniques []byte, err error) {
	primary, err = defaultDocuments.ReadFile("defaults/config.json")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read embedded config.json: %w", err)
	}
	techniques, err = defaultDocuments.ReadFile("defaults/techniques.json")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read embedded techniques.json: %w", err)
	}
	return primary, techniques, nil
}

// DefaultTables parses the embedded table documents.
func DefaultTables() (*Store, error) {
	primary, techniques, err := DefaultTableDocuments()
	if err != nil {
		return nil, err
	}
	return ParseTables(primary, techniques)
}

// WriteDefaults initializes a workspace's .vault directory with vault.yaml and
// the two table documents. Existing files are kept unless overwrite is set.
// It returns the paths actually written.
func WriteDefaults(workspace string, overwrite bool) ([]string, error) {
	dir := filepath.Join(workspace, DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	primary, techniques, err := DefaultTableDocuments()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	var written []string

	cfgPath := DefaultConfigPath(workspace)
	if overwrite || !exists(cfgPath) {
		if err := cfg.Save(cfgPath); err != nil {
			return written, err
		}
		written = append(written, cfgPath)
	}

	files := []struct {
		name string
		data []byte
	}{
		{cfg.Tables.ConfigPath, primary},
		{cfg.Tables.TechniquesPath, techniques},
	}
	for _, f := range files {
		path := ResolvePath(workspace, f.name)
		if !overwrite && exists(path) {
			continue
		}
		if err := os.WriteFile(path, f.data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}

	return written, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
