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

package devices

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// DBConfig describes a read-only device inventory table.
type DBConfig struct {
	Type     string // mysql or postgres
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Table    string
	Column   string

	ConnTimeout time.Duration
}

// SQLSource lists device identifiers from an inventory table.
type SQLSource struct {
	cfg    DBConfig
	logger *zap.Logger
}

// NewSQLSource validates cfg and returns a source. No connection is opened yet.
func NewSQLSource(cfg DBConfig, logger *zap.Logger) (*SQLSource, error) {
	switch cfg.Type {
	case "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported device source type %q (expected mysql or postgres)", cfg.Type)
	}
	if cfg.Name == "" || cfg.User == "" {
		return nil, fmt.Errorf("device database name and user are required")
	}
	if !identifierPattern.MatchString(cfg.Table) {
		return nil, fmt.Errorf("invalid device table name %q", cfg.Table)
	}
	if !identifierPattern.MatchString(cfg.Column) {
		return nil, fmt.Errorf("invalid device column name %q", cfg.Column)
	}
	return &SQLSource{cfg: cfg, logger: logger}, nil
}

// List implements Source.
func (s *SQLSource) List(ctx context.Context) ([]string, error) {
	s.logger.Debug("Opening device inventory connection",
		zap.String("driver", s.cfg.Type),
		zap.String("host", s.cfg.Host),
		zap.String("database", s.cfg.Name),
	)

	db, err := sql.Open(s.cfg.Type, ConnectionString(s.cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	query := Query(s.cfg)
	s.logger.Debug("Querying device inventory", zap.String("query", query))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query device inventory: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id sql.NullString
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan device id: %w", err)
		}
		if !id.Valid || strings.TrimSpace(id.String) == "" {
			s.logger.Warn("Skipping empty device id in inventory")
			continue
		}
		ids = append(ids, id.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	s.logger.Info("Loaded device inventory",
		zap.String("table", s.cfg.Table),
		zap.Int("devices", len(ids)),
	)
	return ids, nil
}

// Query returns the SELECT statement used to list devices.
func Query(cfg DBConfig) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", cfg.Column, cfg.Table, cfg.Column)
}

// ConnectionString builds a driver DSN for cfg.
func ConnectionString(cfg DBConfig) string {
	timeoutSec := int(cfg.ConnTimeout / time.Second)
	if timeoutSec < 1 {
		timeoutSec = 30
	}

	switch cfg.Type {
	case "postgres":
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "require"
		}
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslMode, timeoutSec,
		)
	default:
		tls := "true"
		if cfg.SSLMode == "disable" {
			tls = "false"
		}
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?tls=%s&timeout=%ds",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, tls, timeoutSec,
		)
	}
}
