package fuse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthfs/synthfs/internal/config"
	"github.com/synthfs/synthfs/internal/virtual"
)

func newTestManager(cfg *config.MountConfig) *MountManager {
	return NewMountManager(NewFileSystem(virtual.New(), nil, nil), cfg)
}

func TestNewMountManagerDefaults(t *testing.T) {
	t.Parallel()

	m := newTestManager(nil)
	require.NotNil(t, m.config)
	assert.Equal(t, "synthfs", m.config.FSName)
	assert.False(t, m.IsMounted())
}

func TestValidateMountPoint(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		m := newTestManager(&config.MountConfig{MountPoint: ""})
		assert.Error(t, m.validateMountPoint())
	})

	t.Run("does not exist", func(t *testing.T) {
		m := newTestManager(&config.MountConfig{
			MountPoint: filepath.Join(t.TempDir(), "missing"),
		})
		assert.Error(t, m.validateMountPoint())
	})

	t.Run("not a directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

		m := newTestManager(&config.MountConfig{MountPoint: path})
		assert.Error(t, m.validateMountPoint())
	})

	t.Run("empty directory is valid", func(t *testing.T) {
		m := newTestManager(&config.MountConfig{MountPoint: t.TempDir()})
		assert.NoError(t, m.validateMountPoint())
	})
}

func TestBuildFUSEOptions(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefault().Mount
	cfg.MountPoint = "/mnt/synthfs"
	cfg.AllowRoot = true
	cfg.AttrTimeout = 30 * time.Second
	cfg.EntryTimeout = 45 * time.Second

	m := newTestManager(&cfg)
	opts := m.buildFUSEOptions()

	assert.Equal(t, "synthfs", opts.MountOptions.FsName)
	assert.True(t, opts.NullPermissions)
	require.NotNil(t, opts.AttrTimeout)
	assert.Equal(t, 30*time.Second, *opts.AttrTimeout)
	require.NotNil(t, opts.EntryTimeout)
	assert.Equal(t, 45*time.Second, *opts.EntryTimeout)

	assert.Contains(t, opts.Options, "ro")
	assert.Contains(t, opts.Options, "allow_root")
	assert.Contains(t, opts.Options, "subtype=synth")
}

func TestUnmountWhenNotMounted(t *testing.T) {
	t.Parallel()

	m := newTestManager(nil)
	assert.Error(t, m.Unmount())
}

func TestGetStatsBeforeMount(t *testing.T) {
	t.Parallel()

	m := newTestManager(nil)
	stats := m.GetStats()
	require.NotNil(t, stats)
	assert.Zero(t, stats.Lookups)
}
