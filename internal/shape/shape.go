package shape

import (
	"strconv"
	"strings"

	"github.com/synthfs/synthfs/pkg/errors"
)

// Geometry limits for a virtual tree. Descriptors and paths that exceed them
// are truncated, not rejected; tests target exactly-at-cap and one-past-cap
// behavior through these constants.
const (
	// MaxLayers is the maximum number of directory layers in a tree.
	// Width tokens beyond this count are silently ignored.
	MaxLayers = 16

	// MaxWidth is the largest allowed child count for a single layer.
	MaxWidth = 1000000
)

// TreeShape is the geometry of one virtual tree, decoded from the descriptor
// segment that roots it. Every file in the tree has the same size; layer k
// (1-based) has Width[k-1] numbered children.
type TreeShape struct {
	// FileSize is the exact byte length of every file in the tree.
	FileSize int64

	// Depth is the number of directory layers before files appear.
	// Always equal to len(Width).
	Depth int

	// Width holds the child count of each layer, outermost first.
	// Every entry is in (0, MaxWidth].
	Width []int
}

// ParseDescriptor decodes a descriptor segment of the form
//
//	<size>[kKmMgG]x<c1>x<c2>x...x<cD>
//
// into a TreeShape. The size multiplier is 1024 for k/K, 1024^2 for m/M and
// 1024^3 for g/G. Each width token must be a base-10 integer in
// (0, MaxWidth]; a width outside that range fails the whole parse. Two
// quirks are part of the contract: empty width tokens (consecutive 'x'
// separators) are skipped rather than rejected, and tokens past MaxLayers
// are silently dropped.
//
// On failure no partial shape is returned.
func ParseDescriptor(segment string) (*TreeShape, error) {
	parts := strings.Split(segment, "x")

	size, ok := parseSize(parts[0])
	if !ok {
		return nil, errors.NewError(errors.ErrCodeInvalidDescriptor,
			"descriptor has no valid size token").WithComponent("shape")
	}

	ts := &TreeShape{FileSize: size}
	for _, tok := range parts[1:] {
		if ts.Depth == MaxLayers {
			break
		}
		if tok == "" {
			// Consecutive separators produce an empty token; skipped
			// by contract.
			continue
		}
		w, err := strconv.Atoi(tok)
		if err != nil || w <= 0 || w > MaxWidth {
			return nil, errors.NewError(errors.ErrCodeInvalidDescriptor,
				"width token "+strconv.Quote(tok)+" is not an integer in (0, "+
					strconv.Itoa(MaxWidth)+"]").WithComponent("shape")
		}
		ts.Width = append(ts.Width, w)
		ts.Depth++
	}
	return ts, nil
}

// parseSize decodes the leading size token: a non-negative integer followed
// by at most one unit letter.
func parseSize(tok string) (int64, bool) {
	if tok == "" {
		return 0, false
	}

	mult := int64(1)
	num := tok
	switch tok[len(tok)-1] {
	case 'k', 'K':
		mult = 1 << 10
		num = tok[:len(tok)-1]
	case 'm', 'M':
		mult = 1 << 20
		num = tok[:len(tok)-1]
	case 'g', 'G':
		mult = 1 << 30
		num = tok[:len(tok)-1]
	}

	v, err := strconv.ParseInt(num, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v * mult, true
}
