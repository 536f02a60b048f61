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

// Package params holds the ordered device configuration parameters that are
// signed into an M350 configuration token.
// Order matters: the firmware verifies the signature over the exact byte
// sequence, so the parameters are kept as a slice rather than a Go map.
package params

// HAddrKey is the parameter carrying the device callback URL.
const HAddrKey = "haddr"

// Param is a single configuration entry.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered list of configuration entries.
type Params []Param

// Default returns the stock M350 configuration used when no parameter file is given.
func Default() Params {
	return Params{
		{Key: "w_mode", Value: 1},
		{Key: "ochannel", Value: 64},
		{Key: "nochannel", Value: 64},
		{Key: "owifi", Value: 1},
		{Key: "de_type", Value: 513},
		{Key: "nfc", Value: 1},
		{Key: "nfc_identity_card_enable", Value: 0},
		{Key: "nfc_card_protocol", Value: 3},
		{Key: "st", Value: 1},
		{Key: "len", Value: 8},
		{Key: "nft", Value: 0},
		{Key: "awifi_s", Value: 2},
		{Key: "relayd", Value: 1000},
		{Key: "awifi_f", Value: 4},
		{Key: HAddrKey, Value: "http://localhost/"},
		{Key: "houttime", Value: 5},
	}
}

// Get returns the value stored under key.
func (p Params) Get(key string) (any, bool) {
	for _, e := range p {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the parameter names in order.
func (p Params) Keys() []string {
	keys := make([]string, len(p))
	for i, e := range p {
		keys[i] = e.Key
	}
	return keys
}

// Clone returns a copy that shares no backing array with p.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	copy(out, p)
	return out
}

// With returns a copy of p with key set to value. An existing key keeps its
// position; a new key is appended. The receiver is never modified.
func (p Params) With(key string, value any) Params {
	out := p.Clone()
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Param{Key: key, Value: value})
}
