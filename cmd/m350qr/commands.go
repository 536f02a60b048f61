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

package main

import (
	"context"
	"fmt"
	"os/user"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Iktahana/VGUANG-M350-tool/internal/caption"
	"github.com/Iktahana/VGUANG-M350-tool/internal/config"
	"github.com/Iktahana/VGUANG-M350-tool/internal/devices"
	"github.com/Iktahana/VGUANG-M350-tool/internal/logger"
	"github.com/Iktahana/VGUANG-M350-tool/internal/params"
	"github.com/Iktahana/VGUANG-M350-tool/internal/provision"
	"github.com/Iktahana/VGUANG-M350-tool/internal/qr"
	"github.com/Iktahana/VGUANG-M350-tool/internal/signer"
)

// app bundles everything a command needs once configuration is resolved.
type app struct {
	cfg         *config.Config
	params      params.Params
	signer      *signer.Signer
	provisioner *provision.Provisioner
	log         *zap.Logger
}

func setup(cmd *cobra.Command) (*app, error) {
	log := logger.Logger

	currentUser, err := user.Current()
	username := "unknown"
	if err == nil {
		username = currentUser.Username
	}
	log.Info("Starting M350 provisioning tool",
		zap.String("command", cmd.Name()),
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("user", username),
	)

	cfg, err := config.LoadConfig(log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlagOverrides(cmd, cfg)

	p := params.Default()
	if cfg.ParamsFile != "" {
		if p, err = params.LoadFile(cfg.ParamsFile); err != nil {
			return nil, err
		}
		log.Info("Loaded configuration parameters",
			zap.String("file", cfg.ParamsFile),
			zap.Strings("keys", p.Keys()),
		)
	}

	renderer, err := qr.NewRenderer(log, cfg.QR)
	if err != nil {
		return nil, fmt.Errorf("invalid QR options: %w", err)
	}
	overlay, err := caption.NewOverlayer(log, cfg.Caption)
	if err != nil {
		return nil, fmt.Errorf("invalid caption options: %w", err)
	}

	s := signer.New(cfg.Prefix, cfg.Secret)
	logConfigSummary(log, cfg)

	return &app{
		cfg:         cfg,
		params:      p,
		signer:      s,
		provisioner: provision.New(s, renderer, overlay, log),
		log:         log,
	}, nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("out"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		cfg.CallbackBaseURL = v
	}
	if v, _ := cmd.Flags().GetString("params"); v != "" {
		cfg.ParamsFile = v
	}
	if cmd.Flags().Lookup("devices") != nil {
		if v, _ := cmd.Flags().GetString("devices"); v != "" {
			cfg.DevicesFile = v
		}
	}
	if cmd.Flags().Lookup("fail-fast") != nil && cmd.Flags().Changed("fail-fast") {
		cfg.FailFast, _ = cmd.Flags().GetBool("fail-fast")
	}
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Provision every device listed in the device file or inventory database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.BatchTimeout)
			defer cancel()

			source, err := a.deviceSource()
			if err != nil {
				return err
			}
			ids, err := source.List(ctx)
			if err != nil {
				if devices.IsNotFound(err) {
					a.log.Warn("Device list file not found, nothing to provision",
						zap.String("file", a.cfg.DevicesFile))
					return nil
				}
				return err
			}

			return a.run(ctx, ids)
		},
	}
	cmd.Flags().String("devices", "", "JSON device list (default $DEVICES_FILE or ./devices.json)")
	cmd.Flags().Bool("fail-fast", false, "stop at the first device that fails")
	return cmd
}

func newProvisionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision [device-id...]",
		Short: "Provision the given devices, or one freshly generated id when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			ids := args
			if len(ids) == 0 {
				ids = []string{devices.NewID()}
				a.log.Info("No device id given, generated one", zap.String("device_id", ids[0]))
			}
			return a.run(cmd.Context(), ids)
		},
	}
	cmd.Flags().Bool("fail-fast", false, "stop at the first device that fails")
	return cmd
}

func newSignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign <device-id>",
		Short: "Print the signed configuration token for a device without rendering it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := provision.ValidateDeviceID(args[0]); err != nil {
				return err
			}
			callback, err := provision.CallbackURL(a.cfg.CallbackBaseURL, args[0])
			if err != nil {
				return err
			}
			token, err := a.signer.Sign(provision.WithCallback(a.params, callback))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}

func (a *app) deviceSource() (devices.Source, error) {
	if a.cfg.DeviceSource == "file" {
		return devices.FileSource{Path: a.cfg.DevicesFile}, nil
	}
	return devices.NewSQLSource(a.cfg.DeviceDB, a.log)
}

func (a *app) run(ctx context.Context, ids []string) error {
	summary, err := a.provisioner.RunBatch(ctx, ids, provision.BatchOptions{
		CallbackBaseURL: a.cfg.CallbackBaseURL,
		Params:          a.params,
		OutputDir:       a.cfg.OutputDir,
		FailFast:        a.cfg.FailFast,
	})
	if err != nil {
		return fmt.Errorf("%d of %d devices failed: %w", summary.Failed, summary.TotalDevices, err)
	}
	a.log.Info("Provisioning completed successfully",
		zap.Int("devices", summary.Succeeded),
		zap.Duration("duration", summary.Duration.Round(time.Millisecond)),
	)
	return nil
}

// logConfigSummary logs the effective rendering configuration.
func logConfigSummary(log *zap.Logger, cfg *config.Config) {
	log.Info("Configuration summary",
		zap.String("callback_base_url", cfg.CallbackBaseURL),
		zap.String("output_dir", cfg.OutputDir),
		zap.String("params_file", cfg.ParamsFile),
		zap.Int("qr_min_version", cfg.QR.Version),
		zap.String("qr_recovery_level", config.RecoveryLevelName(cfg.QR.Level)),
		zap.Int("qr_box_size", cfg.QR.BoxSize),
		zap.Int("qr_border", cfg.QR.Border),
		zap.Float64("font_size", cfg.Caption.Size),
		zap.Bool("fail_fast", cfg.FailFast),
	)
}
