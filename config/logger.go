package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogFile    = "ctoken.log"
	defaultMaxSize    = 50 // megabytes
	defaultMaxBackups = 5
	defaultMaxAge     = 14 // days
)

type LogConfig struct {
	// Directory of the log file, or path of the file when it ends with ".log"
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

func (c LogConfig) WithDefaults() LogConfig {
	cpy := c
	if cpy.MaxSize == 0 {
		cpy.MaxSize = defaultMaxSize
	}
	if cpy.MaxBackups == 0 {
		cpy.MaxBackups = defaultMaxBackups
	}
	if cpy.MaxAge == 0 {
		cpy.MaxAge = defaultMaxAge
	}
	return cpy
}

func (c LogConfig) filename() string {
	if filepath.Ext(c.Path) == ".log" {
		return c.Path
	}
	dir := c.Path
	if dir == "" {
		dir = "./logs"
	}
	return filepath.Join(dir, defaultLogFile)
}

/*
CreateLogger returns logger writing into rotated log file when the logger
section is configured, otherwise zap production (or development when debug
is set) logger writing to stderr. The closer must be closed when the logger
is not needed anymore.
*/
func (c *Config) CreateLogger(debug bool) (*zap.Logger, io.Closer, error) {
	if c.Logger == nil {
		var logger *zap.Logger
		var err error
		if debug {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return logger, io.NopCloser(nil), errors.Wrap(err, "create logger")
	}

	lc := c.Logger.WithDefaults()
	path := lc.filename()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, errors.Wrap(err, "create logger")
	}
	rot := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    lc.MaxSize,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAge,
		Compress:   lc.Compress,
	}

	encCfg := zap.NewProductionEncoderConfig()
	level := zap.InfoLevel
	if debug {
		encCfg = zap.NewDevelopmentEncoderConfig()
		level = zap.DebugLevel
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(rot), level)
	return zap.New(core, zap.AddCaller()), rot, nil
}
