package main

import (
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Env is the process environment of the CLI.
type Env struct {
	LogLevel  zapcore.Level `env:"BWSTAGE_LOG_LEVEL" envDefault:"info"`
	LogFormat string        `env:"BWSTAGE_LOG_FORMAT" envDefault:"console" validate:"oneof=console json"`
}

// ParseEnv reads Env from the process environment.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, errors.Wrap(err, "failed to parse environment")
	}
	if err := validator.New().Struct(e); err != nil {
		return e, errors.Wrapf(err, "invalid BWSTAGE_LOG_FORMAT %q", e.LogFormat)
	}
	return e, nil
}

// newLogger builds the CLI logger. Logs go to stderr so a template written to
// stdout stays clean.
func newLogger(e Env) (*zap.Logger, error) {
	var cfg zap.Config
	if e.LogFormat == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(e.LogLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return logger, nil
}
