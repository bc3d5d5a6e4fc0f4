/*
Package shape decodes descriptor segments into virtual tree geometry.

A descriptor is the first path component under the mount point and encodes
everything there is to know about one virtual tree:

	<size>[kKmMgG]x<c1>x<c2>x...x<cD>

"1kx5x4" describes a tree of 1024-byte files behind two directory layers,
the first five wide, the second four wide. The parse is a pure function of
the segment string; no shape is ever stored, so the same descriptor can be
re-decoded on every request at negligible cost.

Two observable quirks are contractual rather than accidental and must not be
"fixed": empty width tokens are skipped, and width tokens past MaxLayers are
dropped without error. Both are covered by tests.
*/
package shape
