//go:build cgofuse
// +build cgofuse

package fuse

import (
	"context"

	"github.com/synthfs/synthfs/internal/config"
	"github.com/synthfs/synthfs/internal/metrics"
	"github.com/synthfs/synthfs/pkg/types"
)

// PlatformFileSystem is the mount surface the daemon drives, independent of
// which FUSE binding backs it.
type PlatformFileSystem interface {
	Mount(ctx context.Context) error
	Unmount() error
	IsMounted() bool
	MountPoint() string
	Wait()
	GetStats() *Stats
}

// CreatePlatformMountManager creates the cgofuse mount manager, used on
// hosts without the go-fuse binding.
func CreatePlatformMountManager(namespace types.Namespace, collector *metrics.Collector, cfg *config.MountConfig) PlatformFileSystem {
	return NewCgoFuseFS(namespace, collector, cfg)
}
