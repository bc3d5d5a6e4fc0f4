package virtual

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthfs/synthfs/internal/shape"
	"github.com/synthfs/synthfs/pkg/types"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		wantKind  types.NodeKind
		wantLayer int
	}{
		{
			name:      "descriptor alone is the tree root",
			path:      "/1kx5x4",
			wantKind:  types.NodeDirectory,
			wantLayer: 0,
		},
		{
			name:      "one index token descends one layer",
			path:      "/1kx5x4/2",
			wantKind:  types.NodeDirectory,
			wantLayer: 1,
		},
		{
			name:     "full index sequence is a file",
			path:     "/1kx5x4/2/3",
			wantKind: types.NodeFile,
		},
		{
			name:     "one token past the files is invalid",
			path:     "/1kx5x4/2/3/0",
			wantKind: types.NodeInvalid,
		},
		{
			name:     "namespace root never resolves",
			path:     "/",
			wantKind: types.NodeInvalid,
		},
		{
			name:     "empty path never resolves",
			path:     "",
			wantKind: types.NodeInvalid,
		},
		{
			name:     "unparseable descriptor",
			path:     "/abc/1/2",
			wantKind: types.NodeInvalid,
		},
		{
			name:     "intermediate tokens are not validated",
			path:     "/1kx5x4/notanumber/3",
			wantKind: types.NodeFile,
		},
		{
			name:     "intermediate tokens may even be out of range",
			path:     "/1kx5x4/99/3",
			wantKind: types.NodeFile,
		},
		{
			name:     "final token must be numeric",
			path:     "/1kx5x4/2/notanumber",
			wantKind: types.NodeInvalid,
		},
		{
			name:     "final token must be inside its layer width",
			path:     "/1kx5x4/2/4",
			wantKind: types.NodeInvalid,
		},
		{
			name:     "final token zero is the first file",
			path:     "/1kx5x4/2/0",
			wantKind: types.NodeFile,
		},
		{
			name:     "negative final token is out of range",
			path:     "/1kx5x4/2/-1",
			wantKind: types.NodeInvalid,
		},
		{
			name:     "depth-0 descriptor exposes no file at its own path",
			path:     "/1k",
			wantKind: types.NodeInvalid,
		},
		{
			name:     "depth-0 descriptor that is itself numeric still resolves nothing",
			path:     "/500",
			wantKind: types.NodeInvalid,
		},
		{
			name:      "repeated separators collapse",
			path:      "//1kx5x4///2",
			wantKind:  types.NodeDirectory,
			wantLayer: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := classify(tt.path)
			assert.Equal(t, tt.wantKind, n.kind)
			if tt.wantKind == types.NodeDirectory {
				assert.Equal(t, tt.wantLayer, n.layer)
			}
		})
	}
}

// A depth-16 tree needs 17 tokens to address a file; the cap admits exactly
// that many, and an 18th token is dropped rather than invalidating the path.
func TestClassifyTokenCap(t *testing.T) {
	t.Parallel()

	desc := "1k" + strings.Repeat("x2", shape.MaxLayers)
	indices := strings.Repeat("/1", shape.MaxLayers)

	deepest := "/" + desc + indices
	require.Equal(t, types.NodeFile, classify(deepest).kind,
		"deepest file of a depth-16 tree must be reachable")

	overlong := deepest + "/1"
	assert.Equal(t, types.NodeFile, classify(overlong).kind,
		"tokens past the cap are dropped, so the path classifies as if they were absent")
}

func TestClassifyIsPure(t *testing.T) {
	t.Parallel()

	paths := []string{"/1kx5x4", "/1kx5x4/2/3", "/junk", "/1kx5x4/2/9"}
	for _, p := range paths {
		first := classify(p)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first.kind, classify(p).kind, "path %q", p)
		}
	}
}
