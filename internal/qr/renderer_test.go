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

package qr_test

import (
	"image/color"
	"strings"
	"testing"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Iktahana/VGUANG-M350-tool/internal/qr"
)

func newRenderer(t *testing.T, opts qr.Options) qr.Renderer {
	t.Helper()
	r, err := qr.NewRenderer(zap.NewNop(), opts)
	require.NoError(t, err)
	return r
}

func TestRender_MinimumVersion(t *testing.T) {
	r := newRenderer(t, qr.DefaultOptions())

	sym, err := r.Render("short")
	require.NoError(t, err)

	assert.Equal(t, 4, sym.Version)
	want := qr.Dimension(4, 10, 4)
	assert.Equal(t, 410, want)
	assert.Equal(t, want, sym.Image.Bounds().Dx())
	assert.Equal(t, want, sym.Image.Bounds().Dy())

	// Quiet zone is background, first module of the finder pattern is foreground.
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, sym.Image.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{A: 0xff}, sym.Image.RGBAAt(40, 40))
}

func TestRender_GrowsForLargePayload(t *testing.T) {
	r := newRenderer(t, qr.DefaultOptions())

	sym, err := r.Render(strings.Repeat("A", 300))
	require.NoError(t, err)

	assert.Greater(t, sym.Version, 4)
	assert.Equal(t, qr.Dimension(sym.Version, 10, 4), sym.Image.Bounds().Dx())
}

func TestRender_CustomGeometry(t *testing.T) {
	opts := qr.DefaultOptions()
	opts.Version = 2
	opts.BoxSize = 3
	opts.Border = 1
	r := newRenderer(t, opts)

	sym, err := r.Render("x")
	require.NoError(t, err)
	assert.Equal(t, qr.Dimension(2, 3, 1), sym.Image.Bounds().Dx())
}

func TestRender_EmptyData(t *testing.T) {
	r := newRenderer(t, qr.DefaultOptions())
	_, err := r.Render("")
	assert.Error(t, err)
}

func TestNewRenderer_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*qr.Options)
	}{
		{name: "version too small", mutate: func(o *qr.Options) { o.Version = 0 }},
		{name: "version too large", mutate: func(o *qr.Options) { o.Version = 41 }},
		{name: "zero box size", mutate: func(o *qr.Options) { o.BoxSize = 0 }},
		{name: "negative border", mutate: func(o *qr.Options) { o.Border = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := qr.DefaultOptions()
			tt.mutate(&opts)
			_, err := qr.NewRenderer(zap.NewNop(), opts)
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]qrcode.RecoveryLevel{
		"L": qrcode.Low, "m": qrcode.Medium, "Q": qrcode.High, "highest": qrcode.Highest,
	} {
		got, err := qr.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := qr.ParseLevel("x")
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	c, err := qr.ParseColor("black")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{A: 0xff}, c)

	c, err = qr.ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0x80, A: 0xff}, c)

	c, err = qr.ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, c)

	_, err = qr.ParseColor("#12345")
	assert.Error(t, err)
	_, err = qr.ParseColor("not-a-colour")
	assert.Error(t, err)
}
