package types

// Namespace defines the pure query surface the protocol adapter consumes.
//
// Every method is a deterministic function of its arguments: the namespace
// holds no state, performs no I/O, and never caches. Identical inputs always
// yield identical results, so any number of calls may run concurrently
// without coordination.
//
// Paths are absolute within the mount ("/<descriptor>/<idx>/..."), using '/'
// as the separator. Failures are *errors.SynthFSError values carrying either
// the PATH_NOT_FOUND or ACCESS_DENIED code; no other failure kinds exist.
type Namespace interface {
	// AttributesOf classifies the path and derives its metadata.
	AttributesOf(path string) (*Attributes, error)

	// ListChildren returns the ordered child names of a directory path.
	// The implicit "." and ".." entries are the adapter's concern.
	ListChildren(path string) ([]string, error)

	// CheckOpen validates an open request. Only read-only intent succeeds;
	// any write or append intent yields ACCESS_DENIED.
	CheckOpen(path string, wantsWrite bool) error

	// ReadRange generates up to length bytes of file content starting at
	// offset. Reading at or past end of file returns an empty slice, not an
	// error. The returned window is always a contiguous slice of the
	// conceptual full-file sequence.
	ReadRange(path string, offset, length int64) ([]byte, error)
}
