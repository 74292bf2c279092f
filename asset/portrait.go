// Package asset loads external imagery and carries embedded definitions.
package asset

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/starfolio/core"
)

// PortraitExts are tried in order for each member id
var PortraitExts = []string{".png", ".jpg", ".jpeg"}

// maxConcurrentLoads bounds decoder goroutines during preload
const maxConcurrentLoads = 4

// ErrNoPortrait is reported when no file exists for a member
var ErrNoPortrait = errors.New("portrait not found")

// Loader resolves member portraits by naming convention: <dir>/member-<id>.<ext>
type Loader struct {
	dir  string
	size int
	log  *zap.SugaredLogger
}

// NewLoader creates a loader rooted at dir, fitting portraits to size×size
func NewLoader(dir string, size int, log *zap.SugaredLogger) *Loader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Loader{dir: dir, size: size, log: log}
}

// PortraitName returns the file stem for a member id
func PortraitName(id int) string {
	return fmt.Sprintf("member-%d", id)
}

// Path returns the first existing portrait path for id
func (l *Loader) Path(id int) (string, error) {
	if l.dir == "" {
		return "", ErrNoPortrait
	}
	stem := filepath.Join(l.dir, PortraitName(id))
	for _, ext := range PortraitExts {
		p := stem + ext
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", ErrNoPortrait
}

// Load decodes and square-crops the portrait for id
func (l *Loader) Load(id int) (image.Image, error) {
	path, err := l.Path(id)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "decode portrait %s", path)
	}
	return imaging.Fill(img, l.size, l.size, imaging.Center, imaging.Lanczos), nil
}

// Preload loads many portraits with bounded concurrency and returns their futures
// at once. Failures are logged and leave the fallback in place.
func (l *Loader) Preload(ctx context.Context, ids []int, fallback func(id int) image.Image) map[int]*Future {
	out := make(map[int]*Future, len(ids))
	for _, id := range ids {
		out[id] = newFuture(fallback(id))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	core.Go(func() {
		for _, id := range ids {
			f := out[id]
			g.Go(func() error {
				defer func() {
					if r := recover(); r != nil {
						core.HandleCrash(r)
					}
				}()
				f.resolve(l.loadCtx(gctx, id))
				return nil
			})
		}
		_ = g.Wait()
	})
	return out
}

func (l *Loader) loadCtx(ctx context.Context, id int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := l.Load(id)
	if err != nil {
		if !errors.Is(err, ErrNoPortrait) {
			l.log.Debugw("portrait load failed", "member", id, "error", err)
		}
		return nil, err
	}
	return img, nil
}
