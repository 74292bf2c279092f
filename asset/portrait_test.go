package asset

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func solid(c color.NRGBA) image.Image {
	return imaging.New(8, 8, c)
}

func writePortrait(t *testing.T, dir string, id int, ext string) {
	t.Helper()
	img := imaging.New(40, 20, color.NRGBA{20, 220, 40, 255})
	require.NoError(t, imaging.Save(img, filepath.Join(dir, PortraitName(id)+ext)))
}

// TestPathPrefersPng verifies extensions are tried in order
func TestPathPrefersPng(t *testing.T) {
	dir := t.TempDir()
	writePortrait(t, dir, 3, ".jpg")
	writePortrait(t, dir, 3, ".png")
	l := NewLoader(dir, 16, nil)

	p, err := l.Path(3)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "member-3.png"), p)

	_, err = l.Path(4)
	assert.ErrorIs(t, err, ErrNoPortrait)

	_, err = NewLoader("", 16, nil).Path(3)
	assert.ErrorIs(t, err, ErrNoPortrait)
}

// TestPreloadSettlesEveryFuture verifies bounded loads end with either the portrait or the fallback
func TestPreloadSettlesEveryFuture(t *testing.T) {
	dir := t.TempDir()
	var ids []int
	for id := 1; id <= 3*maxConcurrentLoads; id++ {
		ids = append(ids, id)
		if id%3 == 0 {
			writePortrait(t, dir, id, ".png")
		}
	}
	// undecodable file for id 2
	require.NoError(t, os.WriteFile(filepath.Join(dir, PortraitName(2)+".png"), []byte("not an image"), 0o644))

	fallbacks := map[int]image.Image{}
	for _, id := range ids {
		fallbacks[id] = solid(color.NRGBA{uint8(id), 0, 0, 255})
	}

	l := NewLoader(dir, 16, zaptest.NewLogger(t).Sugar())
	futures := l.Preload(context.Background(), ids, func(id int) image.Image { return fallbacks[id] })
	require.Len(t, futures, len(ids))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, id := range ids {
		f := futures[id]
		img, err := f.Wait(ctx)
		require.True(t, f.Ready(), "member %d", id)

		switch {
		case id%3 == 0:
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
		case id == 2:
			assert.Error(t, err)
			assert.NotErrorIs(t, err, ErrNoPortrait)
			assert.Same(t, fallbacks[id], img)
		default:
			assert.ErrorIs(t, err, ErrNoPortrait)
			assert.Same(t, fallbacks[id], img)
		}
	}
}

// TestPreloadCanceled verifies a canceled context settles futures on their fallback
func TestPreloadCanceled(t *testing.T) {
	dir := t.TempDir()
	writePortrait(t, dir, 1, ".png")
	fallback := solid(color.NRGBA{1, 2, 3, 255})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	futures := NewLoader(dir, 16, nil).Preload(ctx, []int{1}, func(int) image.Image { return fallback })

	wait, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	img, err := futures[1].Wait(wait)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Same(t, fallback, img)
}

// TestFutureResolvesOnce verifies a second resolution is ignored
func TestFutureResolvesOnce(t *testing.T) {
	fallback := solid(color.NRGBA{0, 0, 0, 255})
	first := solid(color.NRGBA{255, 0, 0, 255})
	f := newFuture(fallback)
	assert.False(t, f.Ready())
	assert.Same(t, fallback, f.Image())

	f.resolve(first, nil)
	f.resolve(nil, ErrNoPortrait)
	assert.True(t, f.Ready())
	assert.NoError(t, f.Err())
	assert.Same(t, first, f.Image())
}
