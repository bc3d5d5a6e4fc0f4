/*
Package virtual implements the synthetic namespace: path classification,
directory listing, attribute derivation, and deterministic content
generation.

Every path under the mount carries its own complete description. The first
segment is a descriptor (decoded by internal/shape) that fixes file size,
tree depth, and per-layer fan-out; the remaining segments descend the tree:

	/1kx5x4        tree root: a directory with children 0..4
	/1kx5x4/2      second layer: a directory with children 0..3
	/1kx5x4/2/3    a 1024-byte file

Classification follows the token count against the shape's depth. One
deliberate asymmetry: intermediate index tokens are never parsed or
range-checked; only the final segment of a file path must be a decimal
integer within its layer's width. "/1kx5x4/anything/3" is a valid file while
"/1kx5x4/2/anything" is not.

File contents are a pure function of the path string and byte offset. A
rolling hash of the path seeds the generator; each byte position then maps
to a fixed lowercase letter, with newlines every 32 bytes and at end of
file. There is no cache and no shared scratch: each request allocates its
own token slice and output buffer, which is what makes the namespace safe
under unbounded concurrency.
*/
package virtual
