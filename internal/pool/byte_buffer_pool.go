// Package pool holds small sync.Pool-backed allocators shared by the
// hot paths that serialize records to disk.
package pool

import (
	"io"
	"sync"
)

// RecordBufferDefaultSize comfortably holds a batch of encoded records
// for a single Flush without reallocating; RecordBufferMaxThreshold
// bounds how large a returned buffer the pool will retain.
const (
	RecordBufferDefaultSize  = 4096
	RecordBufferMaxThreshold = 1024 * 256
)

// ByteBuffer is a growable byte slice wrapper sized for reuse via a
// ByteBufferPool rather than per-call allocation.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer, retaining its allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Write appends data to the buffer. It never returns an error.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the buffer's contents to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers, bounded by a maximum
// retained capacity so a single oversized write can't bloat the pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose buffers start at defaultSize
// and are discarded, rather than retained, once grown past maxThreshold.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse, discarding it instead
// if it has grown past the pool's maxThreshold.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}
	bb.Reset()
	bbp.pool.Put(bb)
}

var recordBufferPool = NewByteBufferPool(RecordBufferDefaultSize, RecordBufferMaxThreshold)

// GetRecordBuffer retrieves a scratch ByteBuffer from the default
// record-encoding pool, sized for a batch of .dtf records.
func GetRecordBuffer() *ByteBuffer {
	return recordBufferPool.Get()
}

// PutRecordBuffer returns a scratch ByteBuffer to the default
// record-encoding pool.
func PutRecordBuffer(bb *ByteBuffer) {
	recordBufferPool.Put(bb)
}
