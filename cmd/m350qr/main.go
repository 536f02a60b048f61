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

// Package main is the entry point for the M350 provisioning CLI.
// It signs reader configuration tokens and writes one captioned QR label per device.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Iktahana/VGUANG-M350-tool/internal/logger"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load .env file (optional) before the logger so LOG_* settings apply.
	envErr := godotenv.Load()

	logger.InitLogger()
	defer logger.Sync()

	if envErr != nil {
		logger.Logger.Debug("No .env file found, using environment variables")
	} else {
		logger.Logger.Info(".env file loaded successfully")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Logger.Error("Command failed", zap.Error(err))
		stop()
		logger.Sync()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "m350qr",
		Short: "Generate signed configuration QR labels for VGUANG M350 readers",
		Long: `m350qr builds the signed ___VBAR_CONFIG___ token for each reader, encodes it
as a QR code and writes <device-id>.png with the device id printed on it.

Configuration comes from the environment (and an optional .env file); flags
override the environment.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("out", "", "output directory (default $OUTPUT_DIR or ./results/)")
	root.PersistentFlags().String("base-url", "", "callback base URL (default $CALLBACK_BASE_URL)")
	root.PersistentFlags().String("params", "", "YAML parameter file (default $PARAMS_FILE or built-in defaults)")

	root.AddCommand(newBatchCmd(), newProvisionCmd(), newSignCmd())
	return root
}
