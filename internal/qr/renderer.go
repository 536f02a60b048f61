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

// Package qr provides QR code rasterisation for configuration tokens.
package qr

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// Options controls the generated symbol and its raster geometry.
type Options struct {
	// Version is the minimum symbol version (1-40). Larger payloads grow it.
	Version int
	Level   qrcode.RecoveryLevel
	// BoxSize is the edge length of one module in pixels.
	BoxSize int
	// Border is the quiet zone width in modules.
	Border     int
	Foreground color.Color
	Background color.Color
}

// DefaultOptions matches the layout the M350 labels have always been printed with.
func DefaultOptions() Options {
	return Options{
		Version:    4,
		Level:      qrcode.Low,
		BoxSize:    10,
		Border:     4,
		Foreground: color.Black,
		Background: color.White,
	}
}

// Symbol is a rendered QR code.
type Symbol struct {
	Image   *image.RGBA
	Version int
}

// Renderer turns text into a QR image.
type Renderer interface {
	Render(text string) (*Symbol, error)
}

type renderer struct {
	logger *zap.Logger
	opts   Options
}

// NewRenderer creates a renderer with the given options.
func NewRenderer(logger *zap.Logger, opts Options) (Renderer, error) {
	if opts.Version < 1 || opts.Version > 40 {
		return nil, fmt.Errorf("invalid version %d: must be between 1 and 40", opts.Version)
	}
	if opts.BoxSize <= 0 {
		return nil, fmt.Errorf("invalid box size %d: must be > 0", opts.BoxSize)
	}
	if opts.Border < 0 {
		return nil, fmt.Errorf("invalid border %d: must be >= 0", opts.Border)
	}
	if opts.Foreground == nil {
		opts.Foreground = color.Black
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	return &renderer{logger: logger, opts: opts}, nil
}

// Render encodes text at the configured minimum version, falling back to the
// smallest version that fits when the payload is too large.
func (r *renderer) Render(text string) (*Symbol, error) {
	if text == "" {
		r.logger.Warn("QR code generation failed: empty data provided")
		return nil, fmt.Errorf("data cannot be empty")
	}

	r.logger.Debug("Encoding QR code",
		zap.Int("min_version", r.opts.Version),
		zap.Int("data_length", len(text)),
	)

	q, err := qrcode.NewWithForcedVersion(text, r.opts.Version, r.opts.Level)
	if err != nil {
		r.logger.Debug("Payload exceeds minimum version, selecting automatically",
			zap.Int("min_version", r.opts.Version),
			zap.Error(err),
		)
		q, err = qrcode.New(text, r.opts.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to encode QR code: %w", err)
		}
	}

	q.DisableBorder = true
	q.ForegroundColor = r.opts.Foreground
	q.BackgroundColor = r.opts.Background

	// A negative size asks go-qrcode for a fixed number of pixels per module.
	symbol := q.Image(-r.opts.BoxSize)

	pad := r.opts.Border * r.opts.BoxSize
	sb := symbol.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, sb.Dx()+2*pad, sb.Dy()+2*pad))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.opts.Background), image.Point{}, draw.Src)
	draw.Draw(img, sb.Add(image.Pt(pad, pad)), symbol, sb.Min, draw.Src)

	r.logger.Debug("QR code generated successfully",
		zap.Int("version", q.VersionNumber),
		zap.String("image_dimensions", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy())),
	)

	return &Symbol{Image: img, Version: q.VersionNumber}, nil
}

// Dimension returns the pixel edge length of a symbol of the given version.
func Dimension(version, boxSize, border int) int {
	return (17 + 4*version + 2*border) * boxSize
}
