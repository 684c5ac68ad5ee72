/* Copyright 2025 Memorymap Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/memorymap/memorymap/pkg/server/buildinfo"
	"github.com/memorymap/memorymap/pkg/server/config"
	"github.com/memorymap/memorymap/pkg/server/controllers"
	"github.com/memorymap/memorymap/pkg/server/log"
	"github.com/pkg/errors"
)

const shutdownTimeout = 10 * time.Second

func startCmd(args []string) {
	fs := setupFlagSet("start", "memorymap-server start")

	port := fs.String("port", "", "Server port (env: PORT, default: 3001)")
	dbDriver := fs.String("dbDriver", "", "Database driver: sqlite or postgres (env: DB_DRIVER, default: sqlite)")
	dbPath := fs.String("dbPath", "", "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/memorymap/server.db)")
	dsn := fs.String("dsn", "", "PostgreSQL connection string (env: DSN)")
	logLevel := fs.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")
	envFile := fs.String("envFile", ".env", "Path to a dotenv file to load")

	fs.Parse(args)

	if err := config.LoadEnv(*envFile); err != nil {
		fmt.Printf("Error: %s\n\n", err)
		os.Exit(1)
	}

	cfg, err := config.New(config.Params{
		Port:     *port,
		DBDriver: *dbDriver,
		DBPath:   *dbPath,
		DSN:      *dsn,
		LogLevel: *logLevel,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	log.SetLevel(cfg.LogLevel)

	a, cleanup, err := initApp(cfg)
	if err != nil {
		log.ErrorWrap(err, "initializing app")
		os.Exit(1)
	}
	defer cleanup()

	r, err := controllers.NewHandler(a)
	if err != nil {
		panic(errors.Wrap(err, "initializing router"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"version":  buildinfo.Version,
		"port":     cfg.Port,
		"dbDriver": cfg.DBDriver,
	}).Info("Memorymap server starting")

	if err := serve(ctx, fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.ErrorWrap(err, "server failed")
		os.Exit(1)
	}

	log.Info("Memorymap server stopped")
}

// serve runs the server until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listening")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}

	return nil
}
