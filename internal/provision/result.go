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

package provision

import (
	"fmt"
	"time"
)

// ValidationError reports a device identifier that cannot be provisioned.
type ValidationError struct {
	DeviceID string
	Reason   string
	Err      error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid device id %q: %s: %v", e.DeviceID, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid device id %q: %s", e.DeviceID, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Result holds the outcome of provisioning one device.
type Result struct {
	DeviceID    string
	CallbackURL string
	Token       string
	// Path is empty when the image was rendered but not written.
	Path    string
	Width   int
	Height  int
	Version int

	Error       error
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
}

// Summary holds the outcome of a batch run.
type Summary struct {
	TotalDevices int
	Succeeded    int
	Failed       int
	Skipped      int
	Duration     time.Duration
	Results      []*Result
}

// FailedDevices returns the identifiers whose provisioning failed.
func (s *Summary) FailedDevices() []string {
	var ids []string
	for _, r := range s.Results {
		if r.Error != nil {
			ids = append(ids, r.DeviceID)
		}
	}
	return ids
}
