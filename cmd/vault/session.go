package main

import (
	"fmt"
	"os"

	"promptvault/internal/config"
	"promptvault/internal/core"
	"promptvault/internal/logging"

	"go.uber.org/zap"
)

// session is everything a command needs: the resolved workspace, its app
// config and a ready engine.
type session struct {
	workspace string
	cfg       *config.Config
	engine    *core.Engine
}

// resolveWorkspace returns the -w flag or the current directory.
func resolveWorkspace() (string, error) {
	if workspace != "" {
		return workspace, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return cwd, nil
}

// loadAppConfig reads .vault/vault.yaml (defaults when absent) and starts
// file logging when debug_mode is on.
func loadAppConfig() (string, *config.Config, error) {
	ws, err := resolveWorkspace()
	if err != nil {
		return "", nil, err
	}

	cfg, err := config.Load(config.DefaultConfigPath(ws))
	if err != nil {
		return "", nil, err
	}
	if err := cfg.Validate(); err != nil {
		return "", nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := logging.Initialize(ws, logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.JSONFormat,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		logger.Warn("File logging unavailable", zap.Error(err))
	}
	logging.Boot("Workspace %s", ws)
	return ws, cfg, nil
}

// resolveFeatures applies --features on top of the configured toggles.
func resolveFeatures(cfg *config.Config) (config.Features, error) {
	if featuresFlag == "" {
		return cfg.Features, nil
	}
	return config.ParseFeatures(featuresFlag)
}

// openSession loads config and tables and builds the engine.
func openSession(opts ...core.Option) (*session, error) {
	ws, cfg, err := loadAppConfig()
	if err != nil {
		return nil, err
	}

	features, err := resolveFeatures(cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]core.Option{core.WithFeatures(features)}, opts...)

	configPath := config.ResolvePath(ws, cfg.Tables.ConfigPath)
	techniquesPath := config.ResolvePath(ws, cfg.Tables.TechniquesPath)
	engine, err := core.Open(configPath, techniquesPath, opts...)
	if err != nil {
		logging.BootError("failed to load tables: %v", err)
		return nil, fmt.Errorf("%w (run \"vault init\" to create the default tables)", err)
	}

	logger.Debug("Session ready",
		zap.String("workspace", ws),
		zap.String("features", features.Status()))
	return &session{workspace: ws, cfg: cfg, engine: engine}, nil
}

// historyPath returns the resolved journal path.
func (s *session) historyPath() string {
	return config.ResolvePath(s.workspace, s.cfg.History.DatabasePath)
}

func (s *session) close() {
	logging.CloseAll()
}
