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
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package config provides configuration management for the M350 provisioning tool.
// It loads configuration from environment variables with sensible defaults.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/Iktahana/VGUANG-M350-tool/internal/caption"
	"github.com/Iktahana/VGUANG-M350-tool/internal/devices"
	"github.com/Iktahana/VGUANG-M350-tool/internal/qr"
	"github.com/Iktahana/VGUANG-M350-tool/internal/signer"
)

const (
	PasswordKey        = "PASSWORD"
	ConfigPrefixKey    = "CONFIG_PREFIX"
	CallbackBaseURLKey = "CALLBACK_BASE_URL"
	OutputDirKey       = "OUTPUT_DIR"
	DevicesFileKey     = "DEVICES_FILE"
	ParamsFileKey      = "PARAMS_FILE"

	FontPathKey = "FONT_PATH"
	FontSizeKey = "FONT_SIZE"
	CaptionXKey = "CAPTION_X"
	CaptionYKey = "CAPTION_Y"

	QRVersionKey       = "QR_VERSION"
	QRRecoveryLevelKey = "QR_RECOVERY_LEVEL"
	QRBoxSizeKey       = "QR_BOX_SIZE"
	QRBorderKey        = "QR_BORDER"
	QRFillColorKey     = "QR_FILL_COLOR"
	QRBackColorKey     = "QR_BACK_COLOR"

	FailFastKey     = "FAIL_FAST"
	BatchTimeoutKey = "BATCH_TIMEOUT"

	DeviceSourceKey    = "DEVICE_SOURCE"
	DeviceDBHostKey    = "DEVICE_DB_HOST"
	DeviceDBPortKey    = "DEVICE_DB_PORT"
	DeviceDBNameKey    = "DEVICE_DB_NAME"
	DeviceDBUserKey    = "DEVICE_DB_USER"
	DeviceDBPassKey    = "DEVICE_DB_PASSWORD"
	DeviceDBSSLModeKey = "DEVICE_DB_SSLMODE"
	DeviceDBTableKey   = "DEVICE_DB_TABLE"
	DeviceDBColumnKey  = "DEVICE_DB_COLUMN"
	DeviceDBTimeoutKey = "DEVICE_DB_CONN_TIMEOUT"

	PortKey            = "PORT"
	ReadTimeoutKey     = "READ_TIMEOUT"
	WriteTimeoutKey    = "WRITE_TIMEOUT"
	ShutdownTimeoutKey = "SHUTDOWN_TIMEOUT"
	MaxBodySizeKey     = "MAX_BODY_SIZE"
)

const (
	DefaultPassword        = "1234567887654321"
	DefaultCallbackBaseURL = "https://identify.access.networks.stayforge.io/identify/vguang-m350/"
	DefaultOutputDir       = "./results/"
	DefaultDevicesFile     = "./devices.json"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Secret          []byte
	Prefix          []byte
	CallbackBaseURL string
	OutputDir       string
	DevicesFile     string
	ParamsFile      string

	QR      qr.Options
	Caption caption.Options

	FailFast     bool
	BatchTimeout time.Duration

	// DeviceSource is "file" (default) or a SQL driver name.
	DeviceSource string
	DeviceDB     devices.DBConfig

	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodySize     int64
}

// LoadConfig reads configuration from environment variables and returns a Config instance.
func LoadConfig(logger *zap.Logger) (*Config, error) {
	logger.Debug("Loading configuration from environment variables")

	level, err := qr.ParseLevel(getEnv(QRRecoveryLevelKey, "L"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", QRRecoveryLevelKey, err)
	}
	fill, err := parseColor(QRFillColorKey, "black")
	if err != nil {
		return nil, err
	}
	back, err := parseColor(QRBackColorKey, "white")
	if err != nil {
		return nil, err
	}

	source := strings.ToLower(getEnv(DeviceSourceKey, "file"))
	switch source {
	case "file", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("%s must be one of file, mysql, postgres (got %q)", DeviceSourceKey, source)
	}

	defaultPort := "3306"
	if source == "postgres" {
		defaultPort = "5432"
	}

	cfg := &Config{
		Secret:          []byte(getEnv(PasswordKey, DefaultPassword)),
		Prefix:          []byte(getEnv(ConfigPrefixKey, signer.Prefix)),
		CallbackBaseURL: getEnv(CallbackBaseURLKey, DefaultCallbackBaseURL),
		OutputDir:       getEnv(OutputDirKey, DefaultOutputDir),
		DevicesFile:     getEnv(DevicesFileKey, DefaultDevicesFile),
		ParamsFile:      getEnv(ParamsFileKey, ""),

		QR: qr.Options{
			Version:    parseInt(logger, QRVersionKey, 4),
			Level:      level,
			BoxSize:    parseInt(logger, QRBoxSizeKey, 10),
			Border:     parseInt(logger, QRBorderKey, 4),
			Foreground: fill,
			Background: back,
		},
		Caption: caption.Options{
			FontPath: getEnv(FontPathKey, ""),
			Size:     parseFloat(logger, FontSizeKey, 28),
			X:        parseInt(logger, CaptionXKey, 24),
			Y:        parseInt(logger, CaptionYKey, 0),
			Color:    fill,
		},

		FailFast:     parseBool(getEnv(FailFastKey, "false")),
		BatchTimeout: parseDuration(logger, BatchTimeoutKey, 10*time.Minute),

		DeviceSource: source,
		DeviceDB: devices.DBConfig{
			Type:        source,
			Host:        getEnv(DeviceDBHostKey, "localhost"),
			Port:        getEnv(DeviceDBPortKey, defaultPort),
			Name:        getEnv(DeviceDBNameKey, ""),
			User:        getEnv(DeviceDBUserKey, ""),
			Password:    getEnv(DeviceDBPassKey, ""),
			SSLMode:     getEnv(DeviceDBSSLModeKey, "require"),
			Table:       getEnv(DeviceDBTableKey, "devices"),
			Column:      getEnv(DeviceDBColumnKey, "device_id"),
			ConnTimeout: parseDuration(logger, DeviceDBTimeoutKey, 30*time.Second),
		},

		Port:            getEnv(PortKey, "8080"),
		ReadTimeout:     parseDuration(logger, ReadTimeoutKey, 5*time.Second),
		WriteTimeout:    parseDuration(logger, WriteTimeoutKey, 10*time.Second),
		ShutdownTimeout: parseDuration(logger, ShutdownTimeoutKey, 5*time.Second),
		MaxBodySize:     int64(parseInt(logger, MaxBodySizeKey, 4096)),
	}

	if os.Getenv(PasswordKey) == "" {
		logger.Warn("PASSWORD not set, signing with the factory default secret")
	}

	logger.Info("Configuration loaded successfully",
		zap.String("callback_base_url", cfg.CallbackBaseURL),
		zap.String("output_dir", cfg.OutputDir),
		zap.String("device_source", cfg.DeviceSource),
		zap.Int("qr_version", cfg.QR.Version),
		zap.Int("qr_box_size", cfg.QR.BoxSize),
		zap.Bool("fail_fast", cfg.FailFast),
	)

	return cfg, nil
}

// RecoveryLevelName returns the single-letter name of a recovery level.
func RecoveryLevelName(l qrcode.RecoveryLevel) string {
	switch l {
	case qrcode.Medium:
		return "M"
	case qrcode.High:
		return "Q"
	case qrcode.Highest:
		return "H"
	default:
		return "L"
	}
}

// getEnv retrieves the value of the environment variable for the given key.
// If the variable is not set or empty, it returns the provided defaultValue.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseInt fetches an integer environment variable. Invalid values are
// logged and replaced by fallback.
func parseInt(logger *zap.Logger, key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn(fmt.Sprintf("Invalid %s, using default", key),
			zap.String("value", v),
			zap.Int("default", fallback),
			zap.Error(err))
		return fallback
	}
	return i
}

// parseFloat fetches a positive float environment variable or returns fallback.
func parseFloat(logger *zap.Logger, key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		logger.Warn(fmt.Sprintf("Invalid %s, using default", key),
			zap.String("value", v),
			zap.Float64("default", fallback))
		return fallback
	}
	return f
}

// parseDuration reads a duration string from the environment. Invalid or
// non-positive values are logged and replaced by fallback.
func parseDuration(logger *zap.Logger, key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn(fmt.Sprintf("Invalid %s, using default", key),
			zap.String("value", v),
			zap.Duration("default", fallback),
			zap.Error(err))
		return fallback
	}
	if d <= 0 {
		return fallback
	}
	return d
}

// parseBool converts a string into a boolean.
func parseBool(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "true" || v == "1" || v == "yes"
}

func parseColor(key, fallback string) (color.Color, error) {
	c, err := qr.ParseColor(getEnv(key, fallback))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return c, nil
}
