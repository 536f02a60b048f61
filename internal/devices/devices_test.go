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

package devices_test

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Iktahana/VGUANG-M350-tool/internal/devices"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.json")
	require.NoError(t, os.WriteFile(path, []byte(`["door-1", "door-2", "gate"]`), 0o644))

	ids, err := devices.FileSource{Path: path}.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"door-1", "door-2", "gate"}, ids)
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := devices.LoadFile(filepath.Join(t.TempDir(), "devices.json"))
	require.Error(t, err)
	assert.True(t, devices.IsNotFound(err))
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"door": 1}`), 0o644))

	_, err := devices.LoadFile(path)
	require.Error(t, err)
	assert.False(t, devices.IsNotFound(err))
}

func TestNewID(t *testing.T) {
	a := devices.NewID()
	b := devices.NewID()

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), a)
	assert.NotEqual(t, a, b)
}

func TestNewSQLSource_Validation(t *testing.T) {
	base := devices.DBConfig{Type: "mysql", Name: "inventory", User: "reader", Table: "readers", Column: "device_id"}

	_, err := devices.NewSQLSource(base, zap.NewNop())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*devices.DBConfig)
	}{
		{name: "unknown driver", mutate: func(c *devices.DBConfig) { c.Type = "sqlite" }},
		{name: "missing user", mutate: func(c *devices.DBConfig) { c.User = "" }},
		{name: "injected table", mutate: func(c *devices.DBConfig) { c.Table = "readers; DROP TABLE x" }},
		{name: "bad column", mutate: func(c *devices.DBConfig) { c.Column = "1id" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := devices.NewSQLSource(cfg, zap.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestConnectionString(t *testing.T) {
	cfg := devices.DBConfig{
		Host: "db", Port: "3306", Name: "inventory", User: "reader", Password: "pw",
		ConnTimeout: 10 * time.Second,
	}

	cfg.Type = "mysql"
	assert.Equal(t, "reader:pw@tcp(db:3306)/inventory?tls=true&timeout=10s", devices.ConnectionString(cfg))

	cfg.Type = "postgres"
	cfg.Port = "5432"
	cfg.SSLMode = "disable"
	assert.Equal(t,
		"host=db port=5432 user=reader password=pw dbname=inventory sslmode=disable connect_timeout=10",
		devices.ConnectionString(cfg))
}

func TestQuery(t *testing.T) {
	cfg := devices.DBConfig{Table: "ops.readers", Column: "device_id"}
	assert.Equal(t, "SELECT device_id FROM ops.readers ORDER BY device_id", devices.Query(cfg))
}
