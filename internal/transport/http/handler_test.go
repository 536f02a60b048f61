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

package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Iktahana/VGUANG-M350-tool/internal/caption"
	"github.com/Iktahana/VGUANG-M350-tool/internal/params"
	"github.com/Iktahana/VGUANG-M350-tool/internal/provision"
	"github.com/Iktahana/VGUANG-M350-tool/internal/qr"
	"github.com/Iktahana/VGUANG-M350-tool/internal/signer"
	transport "github.com/Iktahana/VGUANG-M350-tool/internal/transport/http"
)

func newRoutes(t *testing.T, renderer transport.LabelRenderer) http.Handler {
	t.Helper()
	if renderer == nil {
		r, err := qr.NewRenderer(zap.NewNop(), qr.DefaultOptions())
		require.NoError(t, err)
		o, err := caption.NewOverlayer(zap.NewNop(), caption.DefaultOptions())
		require.NoError(t, err)
		renderer = provision.New(signer.New(nil, []byte("k")), r, o, zap.NewNop())
	}
	h := transport.NewHandler(renderer, zap.NewNop(), "https://x/", params.Default(), 1024)
	return h.Routes()
}

func TestGenerate_ReturnsPNG(t *testing.T) {
	routes := newRoutes(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"device_id":"door-7"}`))
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "door-7", rec.Header().Get("X-Device-Id"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds().Dx(), img.Bounds().Dy())
}

func TestGenerate_EmptyBodyGeneratesID(t *testing.T) {
	routes := newRoutes(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Regexp(t, `^[0-9a-f]{32}$`, rec.Header().Get("X-Device-Id"))
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		body     string
		wantCode int
	}{
		{name: "non-ascii device id", method: http.MethodPost, body: `{"device_id":"dévice"}`, wantCode: http.StatusBadRequest},
		{name: "malformed json", method: http.MethodPost, body: `{"device_id":`, wantCode: http.StatusBadRequest},
		{name: "oversized body", method: http.MethodPost, body: `{"device_id":"` + strings.Repeat("a", 2048) + `"}`, wantCode: http.StatusRequestEntityTooLarge},
		{name: "wrong method", method: http.MethodGet, body: "", wantCode: http.StatusMethodNotAllowed},
	}

	routes := newRoutes(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/generate", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			routes.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(string, string, params.Params) ([]byte, *provision.Result, error) {
	return nil, nil, errors.New("font unavailable")
}

func TestGenerate_InternalError(t *testing.T) {
	routes := newRoutes(t, failingRenderer{})

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"device_id":"a"}`))
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "font unavailable")
}

func TestHealthCheck(t *testing.T) {
	routes := newRoutes(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}
