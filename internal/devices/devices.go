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

// Package devices supplies the list of device identifiers to provision.
package devices

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"
)

// Source yields device identifiers in provisioning order.
type Source interface {
	List(ctx context.Context) ([]string, error)
}

// FileSource reads a JSON array of identifiers from disk.
type FileSource struct {
	Path string
}

// List implements Source.
func (f FileSource) List(_ context.Context) ([]string, error) {
	return LoadFile(f.Path)
}

// LoadFile decodes a JSON array of device identifier strings.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read device list %s: %w", path, err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse device list %s: expected a JSON array of strings: %w", path, err)
	}
	return ids, nil
}

// IsNotFound reports whether err means the device list file does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// NewID returns a fresh random identifier as 32 lowercase hex characters.
func NewID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
