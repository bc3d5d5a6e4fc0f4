package virtual

import (
	"strconv"
	"strings"

	"github.com/synthfs/synthfs/internal/shape"
	"github.com/synthfs/synthfs/pkg/types"
)

// Separator is the path separator the namespace splits on.
const Separator = "/"

// maxTokens caps the token count of any path: the descriptor plus up to
// MaxLayers index tokens. Excess tokens are dropped silently, the same
// truncation policy the descriptor parser applies to width tokens.
const maxTokens = shape.MaxLayers + 1

// node is the result of classifying one path. It lives for a single request
// and is never stored; every request re-derives it from the path string.
type node struct {
	kind  types.NodeKind
	shape *shape.TreeShape

	// layer is the number of index tokens consumed, for directories.
	// The tree root (descriptor token only) is layer 0.
	layer int
}

var invalid = node{kind: types.NodeInvalid}

// classify determines what a path denotes against the shape encoded in its
// own first segment. It is a pure function: identical paths always yield
// identical verdicts.
//
// Directory tokens between the descriptor and the final segment are accepted
// as arbitrary strings; only the final segment of a file path is parsed and
// range-checked. This asymmetry is observed behavior of the original system
// and is preserved deliberately.
func classify(path string) node {
	tokens := splitPath(path)
	if len(tokens) == 0 {
		// The namespace root itself never resolves.
		return invalid
	}

	ts, err := shape.ParseDescriptor(tokens[0])
	if err != nil {
		return invalid
	}

	ntok := len(tokens)
	switch {
	case ntok <= ts.Depth:
		return node{kind: types.NodeDirectory, shape: ts, layer: ntok - 1}
	case ntok == ts.Depth+1:
		if ts.Depth == 0 {
			// Degenerate descriptor with no layers: the descriptor
			// token itself becomes the final-index candidate, and
			// there is no layer width for it to fall inside.
			return invalid
		}
		v, err := strconv.Atoi(tokens[ntok-1])
		if err != nil || v < 0 || v >= ts.Width[ts.Depth-1] {
			return invalid
		}
		return node{kind: types.NodeFile, shape: ts}
	default:
		return invalid
	}
}

// splitPath tokenizes a path, dropping empty segments and capping the token
// count at maxTokens. The returned slice is freshly allocated per call so
// concurrent classifications never share storage.
func splitPath(path string) []string {
	tokens := make([]string, 0, maxTokens)
	for _, tok := range strings.Split(path, Separator) {
		if tok == "" {
			continue
		}
		if len(tokens) == maxTokens {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
