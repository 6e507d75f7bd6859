//go:build !js && !wasm

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Its-donkey/tms-ui/internal/config"
	"github.com/Its-donkey/tms-ui/internal/ui/model"
	"github.com/Its-donkey/tms-ui/internal/ui/server"
	"github.com/Its-donkey/tms-ui/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config.json (optional)")
	listen := flag.String("listen", "", "address to serve the UI, overrides config")
	assetsDir := flag.String("assets", "", "directory containing styles.css, css/, main.wasm and wasm_exec.js")
	logDir := flag.String("log-dir", "", "directory for rotated JSON logs")
	logLevel := flag.String("log-level", "", "minimum log level (debug, info, warn, error)")
	themeMode := flag.String("theme-mode", "", "theme marker: class or stylesheet")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := applyFlags(&cfg, *listen, *assetsDir, *logDir, *logLevel, *themeMode); err != nil {
		log.Fatalf("invalid flags: %v", err)
	}

	writers := []io.Writer{os.Stdout}
	if cfg.App.LogDir != "" {
		fw, err := logging.NewFileWriter(cfg.App.LogDir, "ui-server.log", 10, 5)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer fw.Close()
		writers = append(writers, fw)
	}
	logger := logging.New("ui-server", logging.ParseLevel(cfg.App.LogLevel), writers...)

	srv, err := server.New(server.Options{Config: cfg, Logger: logger})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server", "ui server stopped", err, nil)
		os.Exit(1)
	}
}

// applyFlags lets non-empty flags win over the file and environment.
func applyFlags(cfg *config.Config, listen, assets, logDir, logLevel, themeMode string) error {
	if listen = strings.TrimSpace(listen); listen != "" {
		host, port, err := net.SplitHostPort(listen)
		if err != nil {
			return err
		}
		cfg.Server.Addr, cfg.Server.Port = host, port
	}
	if assets != "" {
		cfg.App.Assets = assets
	}
	if logDir != "" {
		cfg.App.LogDir = logDir
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	if themeMode != "" {
		mode := model.ThemeMode(strings.ToLower(strings.TrimSpace(themeMode)))
		if !mode.Valid() {
			return fmt.Errorf("theme-mode %q: must be class or stylesheet", themeMode)
		}
		cfg.Theme.Mode = mode
	}
	return cfg.Validate()
}
