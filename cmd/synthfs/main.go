// Synthfs mounts a synthetic read-only filesystem whose entire directory
// tree and file contents are derived from path strings. Nothing is stored:
// listing /1kx5x4 materializes five directories of four 1 KiB files each,
// and every byte read is recomputed from the path on demand.
//
// Usage:
//
//	synthfs [flags] MOUNTPOINT
//
// Unmount with fusermount -u MOUNTPOINT or by interrupting the process.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/synthfs/synthfs/internal/config"
	"github.com/synthfs/synthfs/internal/fuse"
	"github.com/synthfs/synthfs/internal/metrics"
	"github.com/synthfs/synthfs/internal/virtual"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile     string
		debug          bool
		allowOther     bool
		allowRoot      bool
		attrTimeout    time.Duration
		metricsEnabled bool
		metricsPort    int
	)

	flag.StringVar(&configFile, "config", "", "path to YAML configuration file")
	flag.BoolVar(&debug, "debug", false, "enable FUSE debug logging")
	flag.BoolVar(&allowOther, "allow-other", false, "allow other users to access the mount")
	flag.BoolVar(&allowRoot, "allow-root", false, "allow root to access the mount")
	flag.DurationVar(&attrTimeout, "attr-timeout", 0, "kernel attribute cache timeout (0 = configured default)")
	flag.BoolVar(&metricsEnabled, "metrics", false, "serve Prometheus metrics")
	flag.IntVar(&metricsPort, "metrics-port", 0, "metrics listen port (0 = configured default)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		return fmt.Errorf("exactly one mount point is required")
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	// Flags win over file and environment.
	cfg.Mount.MountPoint = flag.Arg(0)
	if debug {
		cfg.Mount.Debug = true
	}
	if allowOther {
		cfg.Mount.AllowOther = true
	}
	if allowRoot {
		cfg.Mount.AllowRoot = true
	}
	if attrTimeout > 0 {
		cfg.Mount.AttrTimeout = attrTimeout
		cfg.Mount.EntryTimeout = attrTimeout
	}
	if metricsEnabled {
		cfg.Metrics.Enabled = true
	}
	if metricsPort > 0 {
		cfg.Metrics.Port = metricsPort
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := setupLogging(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := metrics.NewCollector(&metrics.Config{
		Enabled:   cfg.Metrics.Enabled,
		Port:      cfg.Metrics.Port,
		Path:      cfg.Metrics.Path,
		Namespace: cfg.Metrics.Namespace,
	})
	if cfg.Metrics.Enabled {
		if err := collector.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := collector.Stop(ctx); err != nil {
				log.Printf("Metrics shutdown: %v", err)
			}
		}()
	}

	manager := fuse.CreatePlatformMountManager(virtual.New(), collector, &cfg.Mount)
	if err := manager.Mount(ctx); err != nil {
		return err
	}

	// Unmount on SIGINT/SIGTERM. A second signal while the unmount is in
	// flight kills the process the hard way.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received %v, unmounting", sig)
		if err := manager.Unmount(); err != nil {
			log.Printf("Unmount: %v", err)
		}
		cancel()
	}()

	// Blocks until Unmount or an external fusermount -u.
	manager.Wait()

	stats := manager.GetStats()
	log.Printf("Session: %d lookups, %d opens, %d reads (%d bytes), %d readdirs, %d not found, %d denied",
		stats.Lookups, stats.Opens, stats.Reads, stats.BytesRead,
		stats.Readdirs, stats.NotFound, stats.Denied)

	return nil
}

// loadConfig layers the YAML file (if given) and environment variables over
// the defaults.
func loadConfig(path string) (*config.Configuration, error) {
	cfg := config.NewDefault()

	if path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(cfg *config.Configuration) error {
	log.SetPrefix("synthfs: ")

	if cfg.Global.LogFile != "" {
		f, err := os.OpenFile(cfg.Global.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: synthfs [flags] MOUNTPOINT

Mounts a synthetic filesystem. Directories named after a tree descriptor
(for example 1kx5x4) expand into numbered subdirectories and files whose
contents are generated deterministically from their paths.

Flags:
`)
	flag.PrintDefaults()
}
