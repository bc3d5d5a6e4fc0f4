package fuse

import (
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/synthfs/synthfs/internal/virtual"
	"github.com/synthfs/synthfs/pkg/errors"
)

func TestErrnoFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want syscall.Errno
	}{
		{"nil is success", nil, 0},
		{
			"not found maps to ENOENT",
			errors.NewError(errors.ErrCodePathNotFound, "no such entry"),
			syscall.ENOENT,
		},
		{
			"access denied maps to EACCES",
			errors.NewError(errors.ErrCodeAccessDenied, "read-only"),
			syscall.EACCES,
		},
		{
			"anything else maps to EIO",
			fmt.Errorf("unexpected"),
			syscall.EIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errnoFromError(tt.err))
		})
	}
}

func TestWantsWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags uint32
		want  bool
	}{
		{"read only", uint32(syscall.O_RDONLY), false},
		{"write only", uint32(syscall.O_WRONLY), true},
		{"read write", uint32(syscall.O_RDWR), true},
		{"read only with append", uint32(syscall.O_RDONLY | syscall.O_APPEND), true},
		{"read only with truncate", uint32(syscall.O_RDONLY | syscall.O_TRUNC), true},
		{"read only with create", uint32(syscall.O_RDONLY | syscall.O_CREAT), true},
		{"read only with noatime-style extras", uint32(syscall.O_RDONLY | syscall.O_NONBLOCK), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wantsWrite(tt.flags))
		})
	}
}

func TestFillAttr(t *testing.T) {
	t.Parallel()

	f := NewFileSystem(virtual.New(), nil, &Config{UID: 1000, GID: 1000})

	t.Run("directory", func(t *testing.T) {
		attr, err := virtual.New().AttributesOf("/1kx5x4/2")
		require.NoError(t, err)

		var out fuse.AttrOut
		f.fillAttr(attr, &out.Attr)
		assert.EqualValues(t, syscall.S_IFDIR|0755, out.Attr.Mode)
		assert.EqualValues(t, 2, out.Attr.Nlink)
		assert.EqualValues(t, 1000, out.Attr.Uid)
	})

	t.Run("file", func(t *testing.T) {
		attr, err := virtual.New().AttributesOf("/1kx5x4/2/3")
		require.NoError(t, err)

		var out fuse.AttrOut
		f.fillAttr(attr, &out.Attr)
		assert.EqualValues(t, syscall.S_IFREG|0444, out.Attr.Mode)
		assert.EqualValues(t, 1024, out.Attr.Size)
		assert.EqualValues(t, 1, out.Attr.Nlink)
	})
}

func TestRecordStats(t *testing.T) {
	t.Parallel()

	f := NewFileSystem(virtual.New(), nil, nil)

	f.record("lookup", 0)
	f.record("lookup", syscall.ENOENT)
	f.record("open", syscall.EACCES)
	f.record("read", 0)
	f.record("readdir", 0)

	stats := f.GetStats()
	assert.EqualValues(t, 2, stats.Lookups)
	assert.EqualValues(t, 1, stats.Opens)
	assert.EqualValues(t, 1, stats.Reads)
	assert.EqualValues(t, 1, stats.Readdirs)
	assert.EqualValues(t, 1, stats.NotFound)
	assert.EqualValues(t, 1, stats.Denied)
}

func TestNewFileSystemDefaults(t *testing.T) {
	t.Parallel()

	f := NewFileSystem(virtual.New(), nil, nil)
	require.NotNil(t, f.config)
	require.NotNil(t, f.namespace)
}
