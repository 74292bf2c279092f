package asset

import (
	"context"
	"image"
	"sync"
)

// Future is an image that resolves asynchronously. Until it resolves
// successfully, Image returns the fallback it was created with.
type Future struct {
	mu       sync.Mutex
	img      image.Image
	resolved bool
	err      error
	done     chan struct{}
}

// newFuture creates an unresolved future showing fallback
func newFuture(fallback image.Image) *Future {
	return &Future{
		img:  fallback,
		done: make(chan struct{}),
	}
}

// resolve settles the future once; a failed load keeps the fallback
func (f *Future) resolve(img image.Image, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.resolved {
		return
	}
	f.resolved = true
	f.err = err
	if err == nil && img != nil {
		f.img = img
	}
	close(f.done)
}

// Image returns the loaded image, or the fallback while pending or after failure
func (f *Future) Image() image.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.img
}

// Ready reports whether the load has settled, successfully or not
func (f *Future) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// Err returns the load error once settled
func (f *Future) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Wait blocks until the future settles or ctx ends, returning the current image either way
func (f *Future) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-f.done:
		return f.Image(), f.Err()
	case <-ctx.Done():
		return f.Image(), ctx.Err()
	}
}
