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

// Package provision turns a device identifier into a signed, captioned QR label.
// For each device it resolves the callback URL, injects it as the haddr
// parameter, signs the configuration and writes <deviceId>.png.
package provision

import (
	"bytes"
	"fmt"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Iktahana/VGUANG-M350-tool/internal/caption"
	"github.com/Iktahana/VGUANG-M350-tool/internal/params"
	"github.com/Iktahana/VGUANG-M350-tool/internal/qr"
	"github.com/Iktahana/VGUANG-M350-tool/internal/signer"
)

// Provisioner wires the signer, renderer and caption overlay together.
type Provisioner struct {
	signer   *signer.Signer
	renderer qr.Renderer
	overlay  *caption.Overlayer
	logger   *zap.Logger
}

// New creates a Provisioner.
func New(s *signer.Signer, r qr.Renderer, o *caption.Overlayer, logger *zap.Logger) *Provisioner {
	return &Provisioner{
		signer:   s,
		renderer: r,
		overlay:  o,
		logger:   logger,
	}
}

// Provision renders the label for deviceID and writes it to outputDir/<deviceID>.png,
// creating intermediate directories as needed. p is not modified.
func (pv *Provisioner) Provision(deviceID, callbackBaseURL string, p params.Params, outputDir string) (*Result, error) {
	if err := ValidateDeviceID(deviceID); err != nil {
		return nil, err
	}

	data, result, err := pv.Render(deviceID, callbackBaseURL, p)
	if err != nil {
		return nil, err
	}

	// Device ids may carry path segments (site1/door); their directories are created too.
	path := filepath.Join(outputDir, deviceID+".png")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	result.Path = path

	pv.logger.Info("QR code saved",
		zap.String("device_id", deviceID),
		zap.String("path", path),
		zap.Int("version", result.Version),
	)
	return result, nil
}

// Render produces the PNG bytes for deviceID without touching the filesystem.
func (pv *Provisioner) Render(deviceID, callbackBaseURL string, p params.Params) ([]byte, *Result, error) {
	started := time.Now()

	if err := ValidateDeviceID(deviceID); err != nil {
		return nil, nil, err
	}

	callback, err := CallbackURL(callbackBaseURL, deviceID)
	if err != nil {
		return nil, nil, err
	}

	token, err := pv.signer.Sign(WithCallback(p, callback))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sign configuration: %w", err)
	}
	pv.logger.Debug("Generated QR data",
		zap.String("device_id", deviceID),
		zap.String("token", token),
	)

	sym, err := pv.renderer.Render(token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render QR code: %w", err)
	}

	if err := pv.overlay.Draw(sym.Image, deviceID); err != nil {
		return nil, nil, fmt.Errorf("failed to draw caption: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sym.Image); err != nil {
		return nil, nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	b := sym.Image.Bounds()
	result := &Result{
		DeviceID:    deviceID,
		CallbackURL: callback,
		Token:       token,
		Width:       b.Dx(),
		Height:      b.Dy(),
		Version:     sym.Version,
		StartedAt:   started,
		CompletedAt: time.Now(),
	}
	result.Duration = result.CompletedAt.Sub(result.StartedAt)
	return buf.Bytes(), result, nil
}

// ValidateDeviceID rejects empty and non-ASCII identifiers.
func ValidateDeviceID(deviceID string) error {
	if deviceID == "" {
		return &ValidationError{DeviceID: deviceID, Reason: "must not be empty"}
	}
	for i := 0; i < len(deviceID); i++ {
		if deviceID[i] >= utf8.RuneSelf {
			return &ValidationError{DeviceID: deviceID, Reason: "must contain only ASCII characters"}
		}
	}
	return nil
}

// CallbackURL resolves deviceID against base with RFC 3986 reference resolution.
// An absolute deviceID replaces base entirely. Characters are kept as written:
// "front door" joins to https://x/front door, and existing %XX sequences are not decoded.
func CallbackURL(base, deviceID string) (string, error) {
	b, err := url.Parse(protectPercent(base))
	if err != nil {
		return "", fmt.Errorf("invalid callback base URL %q: %w", base, err)
	}
	ref, err := url.Parse(protectPercent(deviceID))
	if err != nil {
		return "", &ValidationError{DeviceID: deviceID, Reason: "not a valid URL reference", Err: err}
	}

	// String percent-encodes; undoing it once restores the input characters
	// because every literal '%' went in as %25.
	joined, err := url.PathUnescape(b.ResolveReference(ref).String())
	if err != nil {
		return "", fmt.Errorf("failed to join %q onto %q: %w", deviceID, base, err)
	}
	return joined, nil
}

func protectPercent(s string) string {
	return strings.ReplaceAll(s, "%", "%25")
}

// WithCallback returns a copy of p whose haddr is the quoted callback URL.
func WithCallback(p params.Params, callback string) params.Params {
	return p.With(params.HAddrKey, `"`+callback+`"`)
}
