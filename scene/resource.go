package scene

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ResourceKind classifies an allocation
type ResourceKind int

const (
	ResourceTexture ResourceKind = iota
	ResourceGeometry
	ResourceMaterial
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceTexture:
		return "texture"
	case ResourceGeometry:
		return "geometry"
	case ResourceMaterial:
		return "material"
	}
	return fmt.Sprintf("resource(%d)", int(k))
}

// Handle identifies one live allocation
type Handle struct {
	ID   uint64
	Kind ResourceKind
	Name string
}

// ErrReleased is returned when a handle is disposed twice
var ErrReleased = errors.New("resource already released")

type entry struct {
	handle  Handle
	release func() error
}

// Registry tracks every allocation made while building a world so teardown
// can release all of them
type Registry struct {
	next uint64
	live map[uint64]entry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{live: make(map[uint64]entry)}
}

// Alloc records an allocation; release runs once on Dispose
func (r *Registry) Alloc(kind ResourceKind, name string, release func() error) Handle {
	r.next++
	h := Handle{ID: r.next, Kind: kind, Name: name}
	r.live[h.ID] = entry{handle: h, release: release}
	return h
}

// Dispose releases one handle
func (r *Registry) Dispose(h Handle) error {
	e, ok := r.live[h.ID]
	if !ok {
		return errors.Wrapf(ErrReleased, "%s %q", h.Kind, h.Name)
	}
	delete(r.live, h.ID)
	if e.release == nil {
		return nil
	}
	return errors.Wrapf(runRelease(e.release), "release %s %q", h.Kind, h.Name)
}

// runRelease converts a panicking release into an error
func runRelease(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("panic: %v", p)
		}
	}()
	return fn()
}

// DisposeAll releases every live handle in allocation order
// All releases run even when some fail
func (r *Registry) DisposeAll() error {
	ids := make([]uint64, 0, len(r.live))
	for id := range r.live {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var err error
	for _, id := range ids {
		err = multierr.Append(err, r.Dispose(r.live[id].handle))
	}
	return err
}

// Live returns the number of unreleased handles
func (r *Registry) Live() int {
	return len(r.live)
}

// LiveByKind counts unreleased handles per kind
func (r *Registry) LiveByKind() map[ResourceKind]int {
	out := make(map[ResourceKind]int)
	for _, e := range r.live {
		out[e.handle.Kind]++
	}
	return out
}
