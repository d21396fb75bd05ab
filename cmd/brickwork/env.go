package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmcdole/brickwork/internal/adapter"
	"github.com/mmcdole/brickwork/internal/service"
)

var errNotConfigured = errors.New("no API key configured; run `brickwork setup` or set BRICKWORK_API_KEY")

// appEnv carries configuration and the lazily opened session for one run
type appEnv struct {
	cfg        *adapter.Config
	configFile string
	logger     *slog.Logger

	stdin *os.File
	open  func(cfg *adapter.Config, logger *slog.Logger) (*service.Session, error)

	session *service.Session
}

func newEnv() *appEnv {
	return &appEnv{
		stdin: os.Stdin,
		open:  service.Open,
	}
}

// init loads configuration and logging; a preset config is left untouched
func (e *appEnv) init(configFile string) error {
	if configFile != "" {
		e.configFile = configFile
	}
	if e.logger == nil {
		e.logger = adapter.NullLogger()
	}
	if e.cfg != nil {
		return nil
	}

	cfg, err := adapter.LoadConfigFrom(e.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	e.cfg = cfg

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	e.logger = logger
	slog.SetDefault(logger)
	return nil
}

// Session opens the session on first use
func (e *appEnv) Session() (*service.Session, error) {
	if e.session != nil {
		return e.session, nil
	}
	if !e.cfg.IsConfigured() {
		return nil, errNotConfigured
	}
	sess, err := e.open(e.cfg, e.logger)
	if err != nil {
		return nil, err
	}
	e.session = sess
	return sess, nil
}

// Close releases the session if one was opened
func (e *appEnv) Close() error {
	if e.session == nil {
		return nil
	}
	err := e.session.Close()
	e.session = nil
	return err
}

// saveAPIKey persists key to the active config file
func (e *appEnv) saveAPIKey(key string) error {
	e.cfg.API.Key = key
	if e.configFile != "" {
		return adapter.SaveConfigTo(e.configFile, e.cfg)
	}
	return adapter.SaveAPIKey(key)
}
