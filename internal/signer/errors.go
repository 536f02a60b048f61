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

package signer

import (
	"errors"
	"fmt"
)

// ErrEmptyParams is returned when there is nothing to sign.
var ErrEmptyParams = errors.New("configuration parameters are empty")

// EncodingError reports a parameter value that has no string form.
type EncodingError struct {
	Key   string
	Value any
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("parameter %q: cannot encode value of type %T", e.Key, e.Value)
}

// ConfigError reports a parameter set that cannot produce a usable token.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
