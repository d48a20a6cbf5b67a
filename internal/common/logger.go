package common

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

var (
	globalLogger arbor.ILogger
	loggerMutex  sync.RWMutex
)

// LoggingConfig selects the log level and where log lines go.
type LoggingConfig struct {
	Level   string   `yaml:"level" toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Outputs []string `yaml:"outputs" toml:"outputs" validate:"dive,oneof=console stdout file"`
	File    string   `yaml:"file" toml:"file"`
}

// GetLogger returns the process logger, creating a console logger on first use.
func GetLogger() arbor.ILogger {
	loggerMutex.RLock()
	if globalLogger != nil {
		loggerMutex.RUnlock()
		return globalLogger
	}
	loggerMutex.RUnlock()

	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	if globalLogger == nil {
		globalLogger = arbor.NewLogger().WithConsoleWriter(consoleWriter())
	}
	return globalLogger
}

// InitLogger configures the process logger from cfg and returns it.
func InitLogger(cfg LoggingConfig) arbor.ILogger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	logger := arbor.NewLogger()

	console := len(cfg.Outputs) == 0
	for _, out := range cfg.Outputs {
		switch out {
		case "console", "stdout":
			console = true
		case "file":
			path := cfg.File
			if path == "" {
				path = filepath.Join("logs", "advisor.log")
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				fmt.Fprintf(os.Stderr, "warning: create log directory: %v\n", err)
				console = true
				continue
			}
			logger = logger.WithFileWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeFile,
				FileName:   path,
				TimeFormat: "2006-01-02 15:04:05",
				MaxSize:    50 * 1024 * 1024,
				MaxBackups: 3,
			})
		}
	}
	if console {
		logger = logger.WithConsoleWriter(consoleWriter())
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger = logger.WithLevelFromString(level)

	globalLogger = logger
	return logger
}

func consoleWriter() models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:       models.LogWriterTypeConsole,
		TimeFormat: "15:04:05",
	}
}
