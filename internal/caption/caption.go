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

// Package caption draws the device label onto a rendered QR image.
package caption

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Options describes where and how the caption is drawn.
type Options struct {
	// FontPath points to a TrueType/OpenType file. Empty uses the bundled Go Italic face.
	FontPath string
	// Size is the font size in pixels.
	Size float64
	// X and Y are the top-left corner of the text box.
	X, Y  int
	Color color.Color
}

// DefaultOptions places a 28px caption in the top quiet zone.
func DefaultOptions() Options {
	return Options{
		Size:  28,
		X:     24,
		Y:     0,
		Color: color.Black,
	}
}

// Overlayer draws captions. The font is loaded on first use and cached.
type Overlayer struct {
	logger *zap.Logger
	opts   Options

	mu   sync.Mutex
	face font.Face
}

// NewOverlayer creates an Overlayer. The font file is not opened until the first caption.
func NewOverlayer(logger *zap.Logger, opts Options) (*Overlayer, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("invalid font size %v: must be > 0", opts.Size)
	}
	if opts.Color == nil {
		opts.Color = color.Black
	}
	return &Overlayer{logger: logger, opts: opts}, nil
}

// Draw writes text onto img in place.
func (o *Overlayer) Draw(img draw.Image, text string) error {
	face, err := o.loadFace()
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// Options name the top-left corner of the text; the drawer wants the baseline.
	ascent := face.Metrics().Ascent
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(o.opts.Color),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(o.opts.X), Y: fixed.I(o.opts.Y) + ascent},
	}
	d.DrawString(text)

	o.logger.Debug("Caption drawn",
		zap.String("text", text),
		zap.Int("x", o.opts.X),
		zap.Int("y", o.opts.Y),
		zap.Int("advance_px", d.MeasureString(text).Round()),
	)
	return nil
}

func (o *Overlayer) loadFace() (font.Face, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.face != nil {
		return o.face, nil
	}

	data := goitalic.TTF
	source := "bundled:goitalic"
	if o.opts.FontPath != "" {
		b, err := os.ReadFile(o.opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font %s: %w", o.opts.FontPath, err)
		}
		data = b
		source = o.opts.FontPath
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", source, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    o.opts.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}

	o.logger.Debug("Font loaded", zap.String("source", source), zap.Float64("size", o.opts.Size))
	o.face = face
	return face, nil
}
