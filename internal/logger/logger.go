// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied. See the License for the
// specific language governing permissions and limitations
// under the License.

// Package logger provides centralized logging configuration for the provisioning tool.
package logger

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logger. It is a no-op until InitLogger runs.
var Logger = zap.NewNop()

var (
	initOnce sync.Once
	levelMap = map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
)

// Options configures the logger. FromEnv fills it from LOG_* variables.
type Options struct {
	Env   string // "prod" selects JSON output
	Level zapcore.Level

	// File, when set, receives a copy of every entry and is rotated by size.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// FromEnv reads LOG_ENV, LOG_LEVEL, LOG_FILE, LOG_MAX_SIZE_MB, LOG_MAX_BACKUPS and LOG_MAX_AGE_DAYS.
func FromEnv() Options {
	return Options{
		Env:        os.Getenv("LOG_ENV"),
		Level:      getLogLevelFromEnv(),
		File:       os.Getenv("LOG_FILE"),
		MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 50),
		MaxBackups: envInt("LOG_MAX_BACKUPS", 3),
		MaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 28),
	}
}

// InitLogger initializes the global Logger from the environment once.
func InitLogger() *zap.Logger {
	initOnce.Do(func() {
		opts := FromEnv()
		Logger = New(opts)
		Logger.Debug("Logger initialized",
			zap.String("LOG_ENV", opts.Env),
			zap.String("LOG_LEVEL", opts.Level.String()),
			zap.String("LOG_FILE", opts.File),
		)
	})
	return Logger
}

// New builds a logger writing to stdout and, optionally, a rotating file.
func New(opts Options) *zap.Logger {
	var encCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder

	// Production environment: JSON for structured log parsing.
	if opts.Env == "prod" {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), opts.Level),
	}

	if opts.File != "" {
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(rotator), opts.Level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

// Sync flushes buffered entries. Errors from syncing stdout are ignored.
func Sync() {
	_ = Logger.Sync()
}

// getLogLevelFromEnv parses LOG_LEVEL env var (debug/info/warn/error), defaults to info.
func getLogLevelFromEnv() zapcore.Level {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if level, ok := levelMap[levelStr]; ok {
		return level
	}
	return zapcore.InfoLevel
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
