package common

// WipeByteArray overwrites the buffer with zeros. Used to scrub password
// buffers once they are no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
