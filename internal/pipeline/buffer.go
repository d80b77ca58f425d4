package pipeline

// circularBuffer is one allocation divided into equal chunks. Chunk
// sequence numbers grow without bound; seq modulo the chunk count picks
// the slot, so a slot is reused only once the chunk before it in that slot
// has been flushed.
type circularBuffer struct {
	data      []byte
	chunkSize int
	numChunks int
}

func newCircularBuffer(chunkSize, numChunks int) *circularBuffer {
	return &circularBuffer{
		data:      make([]byte, chunkSize*numChunks),
		chunkSize: chunkSize,
		numChunks: numChunks,
	}
}

// offset is the byte offset of the slot holding chunk seq.
func (b *circularBuffer) offset(seq uint64) int {
	return int(seq%uint64(b.numChunks)) * b.chunkSize
}

// slot returns the first n bytes of the slot holding chunk seq.
func (b *circularBuffer) slot(seq uint64, n int) []byte {
	off := b.offset(seq)
	return b.data[off : off+n : off+n]
}

// block returns the 8 bytes at absolute buffer offset off.
func (b *circularBuffer) block(off int) []byte {
	return b.data[off : off+8 : off+8]
}
