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

// Package main is the entry point for the M350 label preview service.
// POST /generate returns the captioned QR label for one device as a PNG.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Iktahana/VGUANG-M350-tool/internal/caption"
	"github.com/Iktahana/VGUANG-M350-tool/internal/config"
	"github.com/Iktahana/VGUANG-M350-tool/internal/logger"
	"github.com/Iktahana/VGUANG-M350-tool/internal/params"
	"github.com/Iktahana/VGUANG-M350-tool/internal/provision"
	"github.com/Iktahana/VGUANG-M350-tool/internal/qr"
	"github.com/Iktahana/VGUANG-M350-tool/internal/signer"
	transport "github.com/Iktahana/VGUANG-M350-tool/internal/transport/http"
)

func main() {
	envErr := godotenv.Load()

	log := logger.InitLogger()
	defer logger.Sync()

	if envErr != nil {
		log.Debug("No .env file found, using environment variables")
	}
	log.Debug("Starting label preview service initialization")

	cfg, err := config.LoadConfig(log)
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	p := params.Default()
	if cfg.ParamsFile != "" {
		if p, err = params.LoadFile(cfg.ParamsFile); err != nil {
			log.Fatal("Failed to load configuration parameters", zap.Error(err))
		}
	}

	renderer, err := qr.NewRenderer(log, cfg.QR)
	if err != nil {
		log.Fatal("Invalid QR options", zap.Error(err))
	}
	overlay, err := caption.NewOverlayer(log, cfg.Caption)
	if err != nil {
		log.Fatal("Invalid caption options", zap.Error(err))
	}
	pv := provision.New(signer.New(cfg.Prefix, cfg.Secret), renderer, overlay, log)

	h := transport.NewHandler(pv, log, cfg.CallbackBaseURL, p, cfg.MaxBodySize)
	log.Debug("HTTP handler initialized", zap.Int64("max_body_size", cfg.MaxBodySize))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           h.Routes(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Label preview service listening",
			zap.String("addr", srv.Addr),
			zap.String("callback_base_url", cfg.CallbackBaseURL),
		)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Label preview service stopped", zap.Error(err))
		}
		return
	case <-ctx.Done():
		stop()
		log.Info("Shutdown signal received, draining connections", zap.Duration("timeout", cfg.ShutdownTimeout))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("Closing listeners failed", zap.Error(closeErr))
		}
		logger.Sync()
		os.Exit(1)
	}

	log.Info("Label preview service stopped")
}
