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

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Iktahana/VGUANG-M350-tool/internal/devices"
	"github.com/Iktahana/VGUANG-M350-tool/internal/params"
	"github.com/Iktahana/VGUANG-M350-tool/internal/provision"
)

// LabelRenderer renders a device label to PNG bytes.
type LabelRenderer interface {
	Render(deviceID, callbackBaseURL string, p params.Params) ([]byte, *provision.Result, error)
}

// GenerateRequest is the JSON body accepted by Generate.
type GenerateRequest struct {
	DeviceID string `json:"device_id"`
}

const deviceIDHeader = "X-Device-Id"

// Handler serves label previews.
type Handler struct {
	renderer        LabelRenderer
	logger          *zap.Logger
	callbackBaseURL string
	params          params.Params
	maxBodySize     int64
}

// NewHandler creates a new HTTP handler for label generation.
func NewHandler(renderer LabelRenderer, logger *zap.Logger, callbackBaseURL string, p params.Params, maxBodySize int64) *Handler {
	return &Handler{
		renderer:        renderer,
		logger:          logger,
		callbackBaseURL: callbackBaseURL,
		params:          p,
		maxBodySize:     maxBodySize,
	}
}

// Generate handles POST /generate. The body is {"device_id": "..."}; an empty
// or missing id gets a freshly generated one. Responds with the label PNG.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	// Fast fail for obvious oversized requests
	if r.ContentLength > h.maxBodySize {
		h.logger.Warn("Request body too large (ContentLength check)",
			zap.Int64("content_length", r.ContentLength),
			zap.Int64("max_allowed", h.maxBodySize),
			zap.String("remote_addr", r.RemoteAddr),
		)
		http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.logger.Warn("Request body too large",
				zap.Int64("max_allowed", h.maxBodySize),
				zap.String("remote_addr", r.RemoteAddr),
			)
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Warn("Invalid request body", zap.Error(err), zap.String("remote_addr", r.RemoteAddr))
		http.Error(w, "Invalid request body: expected {\"device_id\": \"...\"}", http.StatusBadRequest)
		return
	}

	if req.DeviceID == "" {
		req.DeviceID = devices.NewID()
		h.logger.Debug("Generated device id", zap.String("device_id", req.DeviceID))
	}

	png, result, err := h.renderer.Render(req.DeviceID, h.callbackBaseURL, h.params)
	if err != nil {
		var vErr *provision.ValidationError
		if errors.As(err, &vErr) {
			h.logger.Warn("Rejected device id",
				zap.String("device_id", req.DeviceID),
				zap.Error(err),
				zap.String("remote_addr", r.RemoteAddr),
			)
			http.Error(w, vErr.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to render label",
			zap.String("device_id", req.DeviceID),
			zap.Error(err),
			zap.String("remote_addr", r.RemoteAddr),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set(deviceIDHeader, result.DeviceID)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(png); err != nil {
		h.logger.Error("failed to write response",
			zap.Error(err),
			zap.Int("png_size", len(png)),
			zap.String("remote_addr", r.RemoteAddr),
		)
		return
	}

	h.logger.Info("Label request completed successfully",
		zap.String("device_id", result.DeviceID),
		zap.Int("version", result.Version),
		zap.Int("output_size", len(png)),
		zap.String("remote_addr", r.RemoteAddr),
	)
}

// HealthCheck handles GET /health requests for liveness/readiness probes.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		h.logger.Error("failed to encode health check response",
			zap.Error(err),
			zap.String("remote_addr", r.RemoteAddr),
		)
	}
}

// Routes returns the mux with middleware applied.
func (h *Handler) Routes() http.Handler {
	generate := AllowMethods(http.MethodPost)(http.HandlerFunc(h.Generate))
	generate = AccessLogMiddleware(h.logger)(generate)

	health := AllowMethods(http.MethodGet)(http.HandlerFunc(h.HealthCheck))
	health = AccessLogMiddleware(h.logger)(health)

	mux := http.NewServeMux()
	mux.Handle("/generate", generate)
	mux.Handle("/health", health)
	return mux
}
