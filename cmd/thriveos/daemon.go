package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/api"
	"github.com/thriveremote/thriveos/internal/daemon"
	"github.com/thriveremote/thriveos/internal/ipc"
	"github.com/thriveremote/thriveos/internal/logging"
	"github.com/thriveremote/thriveos/internal/runtimepath"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/thriveos/config.yaml)")
	listen := fs.String("listen", "", "HTTP listen address (overrides config)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: thriveos daemon [--path PATH] [--listen ADDR]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the desktop daemon in the foreground. It serves the HTTP API and")
		fmt.Fprintln(os.Stderr, "the local IPC socket used by the CLI, TUI and MCP server.")
		fmt.Fprintln(os.Stderr, "SIGHUP reloads the configuration.")
	}
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config
	if *listen != "" {
		cfg.Listen = *listen
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	log, closer, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		return 1
	}
	defer closer.Close()

	if _, err := ipc.NewClient().GetStatus(); err == nil {
		log.Error("another thriveos daemon is already running")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d, err := daemon.New(ctx, cfg, log, daemon.Options{})
	if err != nil {
		log.WithError(err).Error("failed to start daemon")
		return 1
	}
	defer d.Close()
	log.WithFields(logrus.Fields{
		"listen":   cfg.Listen,
		"database": cfg.Database.Path,
		"files":    res.Files,
	}).Info("configuration loaded")

	pidPath, err := writePIDFile()
	if err != nil {
		log.WithError(err).Warn("failed to write pid file")
	} else {
		defer os.Remove(pidPath)
	}

	ipcServer, err := ipc.NewServer(d, *path, log)
	if err != nil {
		log.WithError(err).Error("failed to create IPC server")
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		log.WithError(err).Error("failed to start IPC server")
		return 1
	}
	defer ipcServer.Stop()

	httpErr := make(chan error, 1)
	go func() { httpErr <- api.New(d, log).ListenAndServe(ctx, cfg.Listen) }()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		d.Run(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	log.Info("thriveos daemon started")
	code := 0
loop:
	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				log.Info("received SIGHUP, reloading config")
				if err := reloadDaemon(d, *path); err != nil {
					log.WithError(err).Error("config reload failed")
				}
				continue
			}
			log.WithField("signal", sig.String()).Info("shutting down thriveos daemon")
			break loop

		case err := <-httpErr:
			if err != nil {
				log.WithError(err).Error("HTTP server stopped")
				code = 1
			}
			break loop
		}
	}

	cancel()
	<-runDone
	return code
}

func reloadDaemon(d *daemon.Daemon, path string) error {
	res, err := loadConfig(path)
	if err != nil {
		return err
	}
	return d.Reload(res.Config)
}

// writePIDFile records this process in the runtime directory.
func writePIDFile() (string, error) {
	path, err := runtimepath.PIDPath()
	if err != nil {
		return "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		if pid, err := strconv.Atoi(string(data)); err == nil && processAlive(pid) {
			return "", fmt.Errorf("pid file %s names running process %d", path, pid)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0600); err != nil {
		return "", fmt.Errorf("write pid file: %w", err)
	}
	return path, nil
}

func processAlive(pid int) bool {
	if pid <= 0 || pid == os.Getpid() {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}
