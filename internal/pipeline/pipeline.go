// Package pipeline streams a file through a block cipher. Reads fill a
// circular buffer one chunk at a time, a worker pool transforms each
// 8-byte block in place, and chunks are written out strictly in order once
// all of their blocks are done.
package pipeline

import (
	"bytes"
	"context"
	"crypto/cipher"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zmohling/TDES/internal/logger"
	"github.com/zmohling/TDES/internal/padding"
)

const blockSize = padding.BlockSize

// Stats summarizes a finished run.
type Stats struct {
	BytesRead    int64
	BytesWritten int64
	Blocks       int64
	Chunks       int64
	Elapsed      time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the entry used for chunk-level debug logging.
func WithLogger(log *logrus.Entry) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithProgress registers a progress reporter.
func WithProgress(r Reporter) Option {
	return func(p *Pipeline) { p.progress = r }
}

// Pipeline owns the circular buffer, cursors and completion table of one
// run. Run may be called repeatedly but not concurrently.
type Pipeline struct {
	block cipher.Block
	mode  Mode
	cfg   Config

	log      *logrus.Entry
	progress Reporter

	buf     *circularBuffer
	table   *completionTable
	pending pendingQueue
	count   counters

	read, write uint64 // chunk sequence cursors
	chunks      uint64 // chunks in this run
	srcLen      int64
	outLen      int64
}

// New creates a pipeline transforming with block, which must have an
// 8-byte block size and be safe for concurrent use.
func New(block cipher.Block, mode Mode, cfg Config, opts ...Option) *Pipeline {
	if block.BlockSize() != blockSize {
		panic(fmt.Sprintf("pipeline: block size %d, want %d", block.BlockSize(), blockSize))
	}
	p := &Pipeline{
		block: block,
		mode:  mode,
		cfg:   cfg.Normalize(),
		log:   logrus.NewEntry(logger.Discard()),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithField("mode", mode.String())
	return p
}

// Run reads srcLen bytes from src and writes the transformed stream to dst.
// Encrypting appends PKCS#5 padding; decrypting strips it. dst receives
// exactly one Write per non-empty chunk, in chunk order.
func (p *Pipeline) Run(ctx context.Context, src io.Reader, srcLen int64, dst io.Writer) (Stats, error) {
	start := time.Now()
	if err := p.reset(srcLen); err != nil {
		return Stats{}, err
	}

	workers := newPool(p.cfg.Workers)
	defer workers.close()

	for p.write < p.chunks {
		if err := ctx.Err(); err != nil {
			return p.stats(start), fmt.Errorf("%s cancelled at chunk %d: %w", p.mode, p.write, err)
		}

		if p.canRead() {
			if err := p.load(workers, src); err != nil {
				return p.stats(start), err
			}
			p.dispatch(workers)
			p.report()
		}

		ready := p.table.doneChan(p.write)
		if p.canRead() {
			// More input can be buffered; flush only what is already done.
			select {
			case <-ready:
			default:
				continue
			}
		} else {
			select {
			case <-ready:
			case <-ctx.Done():
				return p.stats(start), fmt.Errorf("%s cancelled at chunk %d: %w", p.mode, p.write, ctx.Err())
			}
		}

		if err := p.flush(workers, dst); err != nil {
			return p.stats(start), err
		}
		p.report()
	}

	stats := p.stats(start)
	p.log.WithFields(logrus.Fields{
		"read":    stats.BytesRead,
		"written": stats.BytesWritten,
		"blocks":  stats.Blocks,
		"elapsed": stats.Elapsed,
	}).Debug("pipeline finished")
	return stats, nil
}

func (p *Pipeline) reset(srcLen int64) error {
	if srcLen < 0 {
		return ErrNegativeLength
	}
	outLen := srcLen
	switch p.mode {
	case Encrypt:
		outLen = padding.PaddedLength(srcLen)
	case Decrypt:
		if srcLen == 0 || srcLen%blockSize != 0 {
			return fmt.Errorf("%w: %d bytes", ErrCiphertextLength, srcLen)
		}
	default:
		return fmt.Errorf("unknown mode %d", p.mode)
	}

	cs := int64(p.cfg.ChunkSize)
	if p.buf == nil {
		p.buf = newCircularBuffer(p.cfg.ChunkSize, p.cfg.NumChunks)
	}
	p.table = newCompletionTable()
	p.pending.drain()
	p.count = counters{}
	p.read, p.write = 0, 0
	p.srcLen, p.outLen = srcLen, outLen
	p.chunks = uint64((outLen + cs - 1) / cs)
	return nil
}

// canRead reports whether another chunk exists and has a free slot.
func (p *Pipeline) canRead() bool {
	return p.read < p.chunks && p.read-p.write < uint64(p.cfg.NumChunks)
}

// chunkBounds returns the output byte range covered by chunk seq.
func (p *Pipeline) chunkBounds(seq uint64) (start, end int64) {
	cs := int64(p.cfg.ChunkSize)
	start = int64(seq) * cs
	end = start + cs
	if end > p.outLen {
		end = p.outLen
	}
	return start, end
}

// load fills the slot for the chunk at the read cursor, pads it if it is
// the encrypted stream's last chunk, and registers its completion record.
func (p *Pipeline) load(workers *pool, src io.Reader) error {
	seq := p.read
	start, end := p.chunkBounds(seq)
	slot := p.buf.slot(seq, int(end-start))

	n := p.srcLen - start
	if n > int64(len(slot)) {
		n = int64(len(slot))
	}
	if n < 0 {
		n = 0
	}

	p.log.WithFields(logrus.Fields{
		"chunk": seq,
		"from":  start,
		"to":    end,
	}).Debug("loading chunk")

	base := p.buf.offset(seq)
	err := workers.do(func() error {
		if n > 0 {
			if _, err := io.ReadFull(src, slot[:n]); err != nil {
				return err
			}
		}
		offsets := make([]int, 0, len(slot)/blockSize)
		for off := 0; off < len(slot); off += blockSize {
			offsets = append(offsets, base+off)
		}
		p.pending.push(offsets...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: chunk %d at offset %d: %v", ErrRead, seq, start, err)
	}
	p.count.addRead(n)

	if p.mode == Encrypt && end == p.outLen {
		last := slot[len(slot)-blockSize:]
		padding.Pad(last, int(p.srcLen-(p.outLen-blockSize)))
	}

	p.table.register(seq, uint32(len(slot)/blockSize))
	p.read++
	if p.read-p.write > uint64(p.cfg.NumChunks) {
		panic("pipeline: read cursor overran the write cursor")
	}
	return nil
}

// dispatch hands every pending block to the pool. All pending blocks
// belong to the chunk just loaded.
func (p *Pipeline) dispatch(workers *pool) {
	seq := p.read - 1
	transform := p.block.Encrypt
	if p.mode == Decrypt {
		transform = p.block.Decrypt
	}
	for _, off := range p.pending.drain() {
		b := p.buf.block(off)
		workers.submit(func() {
			transform(b, b)
			p.count.addBlock()
			p.table.complete(seq)
		})
	}
}

// flush writes the chunk at the write cursor and vacates its slot.
func (p *Pipeline) flush(workers *pool, dst io.Writer) error {
	seq := p.write
	start, end := p.chunkBounds(seq)
	slot := p.buf.slot(seq, int(end-start))

	n := len(slot)
	if p.mode == Decrypt && seq == p.chunks-1 {
		pad, err := padding.Unpad(slot[n-blockSize:])
		if err != nil {
			return fmt.Errorf("chunk %d: %w", seq, err)
		}
		n -= pad
	}

	p.log.WithFields(logrus.Fields{
		"chunk": seq,
		"from":  start,
		"bytes": n,
	}).Debug("writing chunk")

	if n > 0 {
		err := workers.do(func() error {
			_, err := dst.Write(slot[:n])
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: chunk %d at offset %d: %v", ErrWrite, seq, start, err)
		}
	}
	p.count.addWrite(int64(n))
	p.table.remove(seq)
	p.write++
	return nil
}

func (p *Pipeline) report() {
	if p.progress == nil {
		return
	}
	writeTotal := p.outLen
	if p.write == p.chunks {
		// Decryption learns the final length only after unpadding.
		writeTotal = p.count.bytesWritten()
	}
	p.progress.Report(Progress{
		Mode:         p.mode,
		BlocksDone:   p.count.blocksDone(),
		BlocksTotal:  p.outLen / blockSize,
		BytesRead:    p.count.bytesRead(),
		ReadTotal:    p.srcLen,
		BytesWritten: p.count.bytesWritten(),
		WriteTotal:   writeTotal,
	})
}

func (p *Pipeline) stats(start time.Time) Stats {
	return Stats{
		BytesRead:    p.count.bytesRead(),
		BytesWritten: p.count.bytesWritten(),
		Blocks:       p.count.blocksDone(),
		Chunks:       int64(p.write),
		Elapsed:      time.Since(start),
	}
}

// EncryptBytes runs an in-memory encryption through a fresh pipeline.
func EncryptBytes(ctx context.Context, block cipher.Block, cfg Config, plaintext []byte) ([]byte, error) {
	return transformBytes(ctx, block, Encrypt, cfg, plaintext)
}

// DecryptBytes is the inverse of EncryptBytes.
func DecryptBytes(ctx context.Context, block cipher.Block, cfg Config, ciphertext []byte) ([]byte, error) {
	return transformBytes(ctx, block, Decrypt, cfg, ciphertext)
}

func transformBytes(ctx context.Context, block cipher.Block, mode Mode, cfg Config, in []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(in) + blockSize)
	if _, err := New(block, mode, cfg).Run(ctx, bytes.NewReader(in), int64(len(in)), &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
