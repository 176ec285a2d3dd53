// Command projectd serves editor projects and assets over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/laogong5i0-2/utopia"
	"github.com/laogong5i0-2/utopia/project"
)

func main() {
	cfgPath := flag.String("config", "projectd.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := project.LoadServerConfig(*cfgPath)
	if err != nil {
		exitErr(fmt.Errorf("load config: %w", err))
	}

	var level slog.LevelVar
	setLevel(&level, cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level}))

	store, err := project.OpenStore(cfg.Database, project.WithStoreLogger(logger))
	if err != nil {
		exitErr(err)
	}
	defer store.Close()

	srv := project.NewServer(store, logger)
	srv.SetMaxAssetBytes(cfg.MaxAssetBytes)
	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	cfgFullPath, err := filepath.Abs(*cfgPath)
	if err != nil {
		exitErr(fmt.Errorf("resolve config path: %w", err))
	}
	cfgFullPath = filepath.Clean(cfgFullPath)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		exitErr(fmt.Errorf("watch config: %w", err))
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(cfgFullPath)); err != nil {
		exitErr(fmt.Errorf("watch config dir: %w", err))
	}
	reloadRequests := make(chan string, 1)
	go watchConfig(logger, watcher, cfgFullPath, reloadRequests)

	errs := make(chan error, 1)
	go func() {
		logger.Info("projectd listening", "addr", cfg.Addr, "database", cfg.Database)
		errs <- httpSrv.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	reload := func(reason string) {
		logger.Info("reloading config", "reason", reason)
		next, err := project.LoadServerConfig(*cfgPath)
		if err != nil {
			logger.Error("reload failed", "error", err)
			return
		}
		setLevel(&level, next.LogLevel)
		srv.SetMaxAssetBytes(next.MaxAssetBytes)
		if next.Addr != cfg.Addr || next.Database != cfg.Database {
			logger.Warn("addr and database changes need a restart")
		}
	}

	for {
		select {
		case err := <-errs:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server exited", "error", err)
				os.Exit(1)
			}
			return
		case reason := <-reloadRequests:
			reload(reason)
		case sig := <-sigs:
			if sig == syscall.SIGHUP {
				reload("received SIGHUP")
				continue
			}
			logger.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := httpSrv.Shutdown(ctx); err != nil {
				logger.Error("shutdown", "error", err)
			}
			cancel()
			return
		}
	}
}

func setLevel(level *slog.LevelVar, name string) {
	l, err := utopia.ParseLogLevel(name)
	if err != nil {
		return
	}
	level.Set(l)
}

func watchConfig(logger *slog.Logger, watcher *fsnotify.Watcher, target string, reloadRequests chan<- string) {
	const debounceWindow = 250 * time.Millisecond
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					<-timerCh
				}
				timer.Reset(debounceWindow)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			select {
			case reloadRequests <- "config file updated":
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error", "error", err)
		}
	}
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
