package backend

import (
	"context"
	"sync"

	"gocv.io/x/gocv"
)

// FrameBuffer keeps the newest encoded stream frame and the newest annotated
// frame for screenshots.
type FrameBuffer struct {
	mu       sync.Mutex
	jpeg     []byte
	seq      uint64
	updated  chan struct{}
	snapshot gocv.Mat
	hasShot  bool
}

// NewFrameBuffer creates an empty FrameBuffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		updated:  make(chan struct{}),
		snapshot: gocv.NewMat(),
	}
}

// SetJPEG publishes an encoded stream frame and wakes every waiter.
func (b *FrameBuffer) SetJPEG(jpeg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.jpeg = jpeg
	b.seq++
	close(b.updated)
	b.updated = make(chan struct{})
}

// Next blocks until a frame newer than after is available, then returns it
// with its sequence number.
func (b *FrameBuffer) Next(ctx context.Context, after uint64) ([]byte, uint64, error) {
	for {
		b.mu.Lock()
		if b.seq > after {
			jpeg, seq := b.jpeg, b.seq
			b.mu.Unlock()
			return jpeg, seq, nil
		}
		wait := b.updated
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, after, ctx.Err()
		case <-wait:
		}
	}
}

// SetSnapshot replaces the screenshot frame with a copy of frame.
func (b *FrameBuffer) SetSnapshot(frame gocv.Mat) {
	b.mu.Lock()
	defer b.mu.Unlock()

	frame.CopyTo(&b.snapshot)
	b.hasShot = !b.snapshot.Empty()
}

// EncodeSnapshot returns the screenshot frame as JPEG. ok is false before the
// first frame.
func (b *FrameBuffer) EncodeSnapshot() (jpeg []byte, ok bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasShot {
		return nil, false, nil
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, b.snapshot)
	if err != nil {
		return nil, true, err
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), true, nil
}

// Close releases the screenshot frame.
func (b *FrameBuffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshot.Close()
	b.hasShot = false
}
