package virtual

// lineWidth is the spacing of injected newlines: every 32nd byte of a file
// is a newline, as is the file's very last byte.
const lineWidth = 32

// contentStride scatters the alphabet across byte positions. Together with
// the path seed it makes every (path, offset) pair map to one fixed letter.
const contentStride = 1723

// pathSeed derives the content seed from the entire path string with a
// rolling multiply-accumulate: each byte is multiplied by its predecessor
// and summed. The hash is order-sensitive and cheap; distinct paths usually,
// though not provably, yield distinct seeds.
func pathSeed(path string) int64 {
	var seed, prev int64
	for i := 0; i < len(path); i++ {
		c := int64(path[i])
		seed += c * prev
		prev = c
	}
	return seed
}

// fill writes the content window [offset, offset+len(dst)) of a file of
// fileSize bytes into dst. Byte j is a newline when j falls on a line
// boundary or is the file's final byte, and a fixed lowercase letter
// otherwise. The function is pure: it reads no state and performs no I/O,
// so windows generated at different offsets always agree.
func fill(dst []byte, seed, fileSize, offset int64) {
	for i := range dst {
		j := offset + int64(i)
		if j%lineWidth == lineWidth-1 || j == fileSize-1 {
			dst[i] = '\n'
		} else {
			dst[i] = 'a' + byte((seed+j*contentStride)%26)
		}
	}
}
