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

// Package signer builds signed M350 configuration tokens.
//
// A token has the form
//
//	<prefix>{k1=v1,k2=v2,...}--<base64(HMAC-MD5(secret, prefix || body))>
//
// The reader firmware recomputes the HMAC over everything before the
// separator, so both the parameter order and the MD5 digest are part of
// the wire format and must not change.
package signer

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/Iktahana/VGUANG-M350-tool/internal/params"
)

const (
	// Prefix is the configuration header expected by VBAR/M350 firmware.
	Prefix = "___VBAR_CONFIG_V1.1.0___"
	// Separator divides the signed message from its signature.
	Separator = "--"
)

// Signer binds a prefix and shared secret.
type Signer struct {
	prefix []byte
	secret []byte
}

// New creates a Signer. An empty prefix selects Prefix.
func New(prefix, secret []byte) *Signer {
	if len(prefix) == 0 {
		prefix = []byte(Prefix)
	}
	return &Signer{prefix: prefix, secret: secret}
}

// Sign returns the signed token for p.
func (s *Signer) Sign(p params.Params) (string, error) {
	return Sign(p, s.prefix, s.secret)
}

// Verify reports whether token carries a valid signature under this signer's secret.
func (s *Signer) Verify(token string) bool {
	return Verify(token, s.secret)
}

// Message renders the brace-wrapped body for p, without prefix or signature.
func Message(p params.Params) (string, error) {
	if len(p) == 0 {
		return "", &ConfigError{Err: ErrEmptyParams}
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, e := range p {
		v, err := formatValue(e.Key, e.Value)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(v)
	}
	b.WriteByte('}')
	return b.String(), nil
}

// Sign builds the canonical message for p and appends its HMAC-MD5 signature.
func Sign(p params.Params, prefix, secret []byte) (string, error) {
	body, err := Message(p)
	if err != nil {
		return "", err
	}

	signed := make([]byte, 0, len(prefix)+len(body))
	signed = append(signed, prefix...)
	signed = append(signed, body...)

	return string(signed) + Separator + digest(secret, signed), nil
}

// Split separates a token into its signed region and signature.
func Split(token string) (signed, signature string, err error) {
	i := strings.LastIndex(token, Separator)
	if i < 0 {
		return "", "", errors.New("token has no signature separator")
	}
	return token[:i], token[i+len(Separator):], nil
}

// Verify recomputes the signature over the signed region of token.
func Verify(token string, secret []byte) bool {
	signed, sig, err := Split(token)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(digest(secret, []byte(signed))))
}

func digest(secret, msg []byte) string {
	mac := hmac.New(md5.New, secret)
	mac.Write(msg)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
