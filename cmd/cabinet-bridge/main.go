package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/sunr3d/cabinet-bridge/internal/config"
	"github.com/sunr3d/cabinet-bridge/internal/entrypoint"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("ошибка загрузки конфигурации: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("ошибка создания логгера: %v", err)
	}
	defer logger.Sync()

	if err := entrypoint.Run(cfg, logger); err != nil {
		logger.Fatal("сервис завершился с ошибкой", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
