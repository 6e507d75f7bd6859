package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

type procConfig struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	build := []procConfig{
		{
			Name: "build-ui-wasm",
			Args: []string{"go", "build", "-o", "ui/main.wasm", "./cmd/ui-wasm"},
			Env:  []string{"GOOS=js", "GOARCH=wasm"},
		},
		{
			Name: "copy-wasm-exec",
			Args: []string{"sh", "-c", `cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" ui/wasm_exec.js`},
		},
	}
	serve := []procConfig{
		{
			Name: "ui",
			Args: []string{
				"go", "run", "./cmd/ui-server",
				"-listen", "127.0.0.1:4173",
				"-assets", "ui",
				"-log-level", "debug",
			},
		},
	}

	// The server must not start before the bundle it serves exists.
	if err := runStages(ctx, []stage{
		{Name: "build", Procs: build},
		{Name: "serve", Procs: serve},
	}); err != nil {
		fmt.Fprintf(os.Stderr, "tms-ui: %v\n", err)
		os.Exit(1)
	}
}

type stage struct {
	Name  string
	Procs []procConfig
}

// runStages runs each stage to completion before starting the next. An
// interrupt ends the run quietly, and no later stage is started.
func runStages(ctx context.Context, stages []stage) error {
	for _, st := range stages {
		if ctx.Err() != nil {
			return nil
		}
		if err := runAll(ctx, st.Procs); err != nil {
			return fmt.Errorf("%s failed: %w", st.Name, err)
		}
	}
	return nil
}

func runAll(ctx context.Context, procs []procConfig) error {
	if len(procs) == 0 {
		return fmt.Errorf("no processes configured")
	}
	var wg sync.WaitGroup
	errCh := make(chan error, len(procs))

	for _, cfg := range procs {
		wg.Add(1)
		go func(cfg procConfig) {
			defer wg.Done()
			cmd := exec.CommandContext(ctx, cfg.Args[0], cfg.Args[1:]...)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			if cfg.Dir != "" {
				cmd.Dir = cfg.Dir
			}
			if len(cfg.Env) > 0 {
				cmd.Env = append(append([]string{}, os.Environ()...), cfg.Env...)
			}
			if err := cmd.Start(); err != nil {
				errCh <- fmt.Errorf("%s start: %w", cfg.Name, err)
				return
			}
			if err := cmd.Wait(); err != nil {
				// If the context was cancelled, treat the exit as expected.
				select {
				case <-ctx.Done():
					return
				default:
				}
				errCh <- fmt.Errorf("%s exited: %w", cfg.Name, err)
			}
		}(cfg)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		shutdownDelay := time.After(2 * time.Second)
		select {
		case <-done:
		case <-shutdownDelay:
		}
	case err := <-errCh:
		return err
	case <-done:
		// A failed process reports before done closes.
		select {
		case err := <-errCh:
			return err
		default:
		}
	}
	return nil
}
