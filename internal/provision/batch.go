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
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Iktahana/VGUANG-M350-tool/internal/params"
)

// BatchOptions controls a batch run.
type BatchOptions struct {
	CallbackBaseURL string
	Params          params.Params
	OutputDir       string
	// FailFast stops at the first device error instead of continuing.
	FailFast bool
}

// RunBatch provisions deviceIDs one after another in list order.
// Unless FailFast is set, a failing device is recorded and the batch carries
// on; the returned error combines every per-device failure.
// ctx is only checked between devices.
func (pv *Provisioner) RunBatch(ctx context.Context, deviceIDs []string, opts BatchOptions) (*Summary, error) {
	started := time.Now()
	summary := &Summary{
		TotalDevices: len(deviceIDs),
		Results:      make([]*Result, 0, len(deviceIDs)),
	}

	pv.logger.Info("Starting provisioning batch",
		zap.Int("devices", len(deviceIDs)),
		zap.String("output_dir", opts.OutputDir),
		zap.Bool("fail_fast", opts.FailFast),
	)

	var errs error
	for i, id := range deviceIDs {
		if err := ctx.Err(); err != nil {
			summary.Skipped = len(deviceIDs) - i
			errs = multierr.Append(errs, fmt.Errorf("batch interrupted: %w", err))
			pv.logger.Warn("Provisioning batch interrupted",
				zap.Error(err),
				zap.Int("skipped", summary.Skipped),
			)
			break
		}

		result := pv.runOne(id, opts)
		summary.Results = append(summary.Results, result)

		if result.Error != nil {
			summary.Failed++
			errs = multierr.Append(errs, fmt.Errorf("device %q: %w", id, result.Error))
			if opts.FailFast {
				summary.Skipped = len(deviceIDs) - i - 1
				break
			}
			continue
		}
		summary.Succeeded++
	}

	summary.Duration = time.Since(started)
	logBatchSummary(pv.logger, summary)

	return summary, errs
}

func (pv *Provisioner) runOne(deviceID string, opts BatchOptions) *Result {
	started := time.Now()
	logger := pv.logger.With(zap.String("device_id", deviceID))

	result, err := pv.Provision(deviceID, opts.CallbackBaseURL, opts.Params, opts.OutputDir)
	if err != nil {
		logger.Error("Provisioning failed", zap.Error(err))
		completed := time.Now()
		return &Result{
			DeviceID:    deviceID,
			Error:       err,
			StartedAt:   started,
			CompletedAt: completed,
			Duration:    completed.Sub(started),
		}
	}
	return result
}

// logBatchSummary logs totals followed by one line per device.
func logBatchSummary(logger *zap.Logger, summary *Summary) {
	logger.Info("Provisioning summary",
		zap.Int("total_devices", summary.TotalDevices),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", summary.Duration),
	)

	for _, result := range summary.Results {
		if result.Error != nil {
			logger.Error("Device failed",
				zap.String("device_id", result.DeviceID),
				zap.Error(result.Error),
			)
			continue
		}
		logger.Debug("Device provisioned",
			zap.String("device_id", result.DeviceID),
			zap.String("path", result.Path),
			zap.Duration("duration", result.Duration),
		)
	}
}
