package crop

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var square = image.Pt(100, 100)

func TestDefaultCentered(t *testing.T) {
	a, ok := Default(square)
	require.True(t, ok)
	assert.Equal(t, Area{X: 10, Y: 10, Width: 80, Height: 80}, a)

	_, ok = Default(image.Pt(19, 100))
	assert.False(t, ok)
}

func TestHitTestOrder(t *testing.T) {
	a := Area{X: 10, Y: 10, Width: 80, Height: 80}
	tests := []struct {
		x, y float64
		want Handle
	}{
		{10, 10, NW},
		{50, 10, N},
		{90, 10, NE},
		{90, 50, E},
		{95, 95, SE},
		{50, 90, S},
		{10, 90, SW},
		{10, 50, W},
		{50, 50, Move},
		{1, 50, W},
		{-1, 50, None},
		{50, 101, None},
	}
	for _, tc := range tests {
		if got := HitTest(a, tc.x, tc.y); got != tc.want {
			t.Errorf("HitTest(%v,%v) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestHitTestSmallAreaPrefersFirstAnchor(t *testing.T) {
	a := Area{X: 0, Y: 0, Width: 20, Height: 20}
	// NW and N anchors are both within reach; NW wins.
	assert.Equal(t, NW, HitTest(a, 4, 0))
}

func TestDragSEScenario(t *testing.T) {
	a, _ := Default(square)
	d, ok := Begin(a, 90, 90)
	require.True(t, ok)
	require.Equal(t, SE, d.Handle)
	got, ok := d.Update(95, 95, square, 0)
	require.True(t, ok)
	assert.Equal(t, Area{X: 10, Y: 10, Width: 85, Height: 85}, got)
	assert.Equal(t, image.Rect(10, 10, 95, 95), got.Rect(square))
}

func TestDragClampsToBoundsAndMinSize(t *testing.T) {
	a, _ := Default(square)

	d := Drag{Handle: SE, StartX: 90, StartY: 90, Original: a}
	got, ok := d.Update(500, 500, square, 0)
	require.True(t, ok)
	assert.Equal(t, 100.0, got.Right())
	assert.Equal(t, 100.0, got.Bottom())

	d = Drag{Handle: NW, StartX: 10, StartY: 10, Original: a}
	got, ok = d.Update(200, 200, square, 0)
	require.True(t, ok)
	assert.Equal(t, float64(MinSize), got.Width)
	assert.Equal(t, float64(MinSize), got.Height)
	assert.Equal(t, 90.0, got.Right())
	assert.Equal(t, 90.0, got.Bottom())

	d = Drag{Handle: W, StartX: 10, StartY: 50, Original: a}
	got, ok = d.Update(-40, 70, square, 0)
	require.True(t, ok)
	assert.Equal(t, Area{X: 0, Y: 10, Width: 90, Height: 80}, got)
}

func TestMoveStaysInside(t *testing.T) {
	a, _ := Default(square)
	d := Drag{Handle: Move, StartX: 50, StartY: 50, Original: a}
	got, ok := d.Update(-100, 300, square, 0)
	require.True(t, ok)
	assert.Equal(t, Area{X: 0, Y: 20, Width: 80, Height: 80}, got)
}

func TestAspectRatioPreserved(t *testing.T) {
	bounds := image.Pt(400, 300)
	for _, ratio := range []float64{1, 4.0 / 3.0, 16.0 / 9.0, 0.5} {
		start, ok := FitAspect(Area{X: 40, Y: 30, Width: 320, Height: 240}, ratio, bounds)
		require.True(t, ok)
		for _, h := range []Handle{NW, N, NE, E, SE, S, SW, W} {
			pts := start.Anchors()
			p := pts[h-NW]
			d := Drag{Handle: h, StartX: p[0], StartY: p[1], Original: start}
			for _, delta := range [][2]float64{{13, 7}, {-25, 40}, {300, -300}, {-500, 500}, {2, 2}} {
				got, ok := d.Update(p[0]+delta[0], p[1]+delta[1], bounds, ratio)
				if !ok {
					continue
				}
				assert.InDelta(t, ratio, got.Width/got.Height, 1e-9, "handle %v delta %v", h, delta)
				assert.True(t, got.Valid(bounds), "handle %v delta %v: %+v", h, delta, got)
			}
		}
	}
}

func TestAspectPinsOppositeEdges(t *testing.T) {
	bounds := image.Pt(400, 300)
	start := Area{X: 100, Y: 100, Width: 100, Height: 100}

	got, ok := Drag{Handle: SE, StartX: 200, StartY: 200, Original: start}.Update(240, 210, bounds, 1)
	require.True(t, ok)
	assert.Equal(t, Area{X: 100, Y: 100, Width: 140, Height: 140}, got)

	got, ok = Drag{Handle: N, StartX: 150, StartY: 100, Original: start}.Update(150, 80, bounds, 1)
	require.True(t, ok)
	assert.Equal(t, 200.0, got.Bottom())
	assert.Equal(t, 120.0, got.Height)
	assert.Equal(t, 120.0, got.Width)
	assert.Equal(t, 150.0, got.X+got.Width/2)
}

func TestAspectFreezesWhenImpossible(t *testing.T) {
	bounds := image.Pt(30, 300)
	start := Area{X: 0, Y: 0, Width: 30, Height: 30}
	d := Drag{Handle: SE, StartX: 30, StartY: 30, Original: start}
	got, ok := d.Update(60, 60, bounds, 2)
	assert.False(t, ok)
	assert.Equal(t, start, got)
}

func TestUpdateWithoutHandleKeepsOriginal(t *testing.T) {
	start := Area{X: 10, Y: 10, Width: 50, Height: 50}
	got, ok := Drag{Original: start}.Update(99, 99, square, 0)
	assert.False(t, ok)
	assert.Equal(t, start, got)
}

func TestParseRatio(t *testing.T) {
	v, err := ParseRatio("16:9")
	require.NoError(t, err)
	assert.InDelta(t, 16.0/9.0, v, 1e-12)

	v, err = ParseRatio("free")
	require.NoError(t, err)
	assert.Zero(t, v)

	v, err = ParseRatio("1.5")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	_, err = ParseRatio("0:3")
	assert.Error(t, err)
	_, err = ParseRatio("wide")
	assert.Error(t, err)
}
