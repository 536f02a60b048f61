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

package qr

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/colornames"
)

// ParseLevel maps L/M/Q/H (or low/medium/high/highest) to a recovery level.
func ParseLevel(s string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return qrcode.Low, nil
	case "m", "medium":
		return qrcode.Medium, nil
	case "q", "high":
		return qrcode.High, nil
	case "h", "highest":
		return qrcode.Highest, nil
	default:
		return qrcode.Low, fmt.Errorf("unknown recovery level %q", s)
	}
}

// ParseColor accepts an SVG colour name ("black") or a #rgb / #rrggbb hex value.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return nil, fmt.Errorf("unknown colour %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
