package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig формат и уровень логгера.
type LoggerConfig struct {
	Environment string
	Level       string // debug, info, warn или error, пусто = по окружению
	Component   string
}

// NewLogger в production пишет JSON, иначе цветной консольный вывод.
// В каждой записи есть имя компонента.
func NewLogger(cfg LoggerConfig) (*zap.Logger, error) {
	var config zap.Config

	if cfg.Environment == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	}

	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		config.Level = level
	}

	config.OutputPaths = []string{"stdout"}
	if cfg.Component != "" {
		config.InitialFields = map[string]any{"component": cfg.Component}
	}

	return config.Build()
}
