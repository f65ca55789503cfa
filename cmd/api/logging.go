package main

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"waypoint/api/internal/config"
)

// setupLogging mirrors the standard logger to a rotating file when one is
// configured. The returned closer flushes that file.
func setupLogging(cfg config.Config) io.Closer {
	if cfg.LogFile == "" {
		return io.NopCloser(nil)
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxMB,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	return rotator
}
