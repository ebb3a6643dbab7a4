package history

import (
	"fmt"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/retouch/internal/pixbuf"
)

func solid(v uint8) *image.RGBA {
	return pixbuf.New(2, 2, color.RGBA{R: v, A: 255})
}

func TestEmptyManager(t *testing.T) {
	m := New(0)
	assert.Equal(t, -1, m.Pointer())
	assert.Nil(t, m.Current())
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
	_, ok := m.Undo()
	assert.False(t, ok)
	_, ok = m.Redo()
	assert.False(t, ok)
}

func TestUndoRedo(t *testing.T) {
	m := New(0)
	m.Push(solid(0), "load")
	m.Push(solid(1), "draw")
	m.Push(solid(2), "draw")

	img, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, uint8(1), img.RGBAAt(0, 0).R)
	assert.True(t, pixbuf.Equal(img, m.Current()))

	img, ok = m.Redo()
	require.True(t, ok)
	assert.Equal(t, uint8(2), img.RGBAAt(0, 0).R)
	_, ok = m.Redo()
	assert.False(t, ok)

	m.Undo()
	m.Undo()
	_, ok = m.Undo()
	assert.False(t, ok, "undo past the base entry")
	assert.Equal(t, 0, m.Pointer())
}

func TestPushTruncatesRedo(t *testing.T) {
	m := New(0)
	m.Push(solid(0), "load")
	m.Push(solid(1), "a")
	m.Push(solid(2), "b")
	m.Undo()
	m.Push(solid(9), "c")
	assert.Equal(t, 3, m.Len())
	assert.False(t, m.CanRedo())
	labels := []string{}
	for _, e := range m.Entries() {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"load", "a", "c"}, labels)
}

func TestCapEvictsOldest(t *testing.T) {
	m := New(0)
	m.Push(solid(0), "load")
	for i := 1; i <= 25; i++ {
		m.Push(solid(uint8(i)), fmt.Sprintf("commit %d", i))
		require.LessOrEqual(t, m.Len(), Cap)
	}
	assert.Equal(t, Cap, m.Len())
	assert.Equal(t, Cap-1, m.Pointer())

	var last *image.RGBA
	for i := 0; i < 20; i++ {
		if img, ok := m.Undo(); ok {
			last = img
		}
	}
	require.NotNil(t, last)
	assert.False(t, pixbuf.Equal(last, solid(0)), "load state must have been evicted")
	assert.Equal(t, uint8(6), last.RGBAAt(0, 0).R)
}

func TestSnapshotsAreCopies(t *testing.T) {
	m := New(0)
	img := solid(5)
	m.Push(img, "load")
	img.SetRGBA(0, 0, color.RGBA{G: 1, A: 255})
	assert.Equal(t, uint8(5), m.Current().RGBAAt(0, 0).R)
}

func TestPushStampsTime(t *testing.T) {
	m := New(3)
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m.now = func() time.Time { return stamp }
	m.Push(solid(1), "load")
	assert.Equal(t, stamp, m.Entries()[0].Time)
}
