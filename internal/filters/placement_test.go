package filters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"selfie-filter-backend/internal/filters"
)

func TestResolve_CrownScenario(t *testing.T) {
	crown := filters.Descriptor{Scale: 0.45, OffsetY: -140}

	p := filters.Resolve(crown, 1000, 2000, 300, 200)

	assert.Equal(t, 450, p.BoxWidth)
	assert.Equal(t, 900, p.BoxHeight)
	assert.Equal(t, 450, p.Width)
	assert.Equal(t, 300, p.Height)
	assert.Equal(t, 275, p.X)
	assert.Equal(t, 710, p.Y)
}

func TestBox_ClampsScale(t *testing.T) {
	w, h := filters.Box(filters.Descriptor{Scale: 2.5}, 1000, 800)

	assert.Equal(t, 990, w)
	assert.Equal(t, 792, h)
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		name                 string
		srcW, srcH, boxW, boxH int
		wantW, wantH         int
	}{
		{name: "wide asset in tall box", srcW: 300, srcH: 200, boxW: 450, boxH: 900, wantW: 450, wantH: 300},
		{name: "tall asset in wide box", srcW: 100, srcH: 400, boxW: 800, boxH: 200, wantW: 50, wantH: 200},
		{name: "same aspect", srcW: 50, srcH: 50, boxW: 120, boxH: 120, wantW: 120, wantH: 120},
		{name: "shrinks large asset", srcW: 4000, srcH: 2000, boxW: 400, boxH: 400, wantW: 400, wantH: 200},
		{name: "empty box", srcW: 10, srcH: 10, boxW: 0, boxH: 10, wantW: 0, wantH: 0},
		{name: "never below one pixel", srcW: 1000, srcH: 1, boxW: 10, boxH: 10, wantW: 10, wantH: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := filters.FitSize(tt.srcW, tt.srcH, tt.boxW, tt.boxH)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestPlace_OriginNeverNegative(t *testing.T) {
	sizes := [][2]int{{1, 1}, {3, 7}, {640, 480}, {1000, 2000}, {4032, 3024}}
	offsets := []int{-100000, -5000, -161, -1, 0, 1, 250}

	for _, size := range sizes {
		for _, ox := range offsets {
			for _, oy := range offsets {
				d := filters.Descriptor{Scale: 0.7, OffsetX: ox, OffsetY: oy}
				p := filters.Resolve(d, size[0], size[1], 64, 48)

				assert.GreaterOrEqual(t, p.X, 0)
				assert.GreaterOrEqual(t, p.Y, 0)
			}
		}
	}
}

func TestPlace_NoFarEdgeClamp(t *testing.T) {
	p := filters.Place(filters.Descriptor{Scale: 0.5, OffsetX: 900, OffsetY: 900}, 1000, 1000, 500, 500)

	assert.Equal(t, 1150, p.X)
	assert.Equal(t, 1150, p.Y)
}

func TestPlace_RoundsHalfUp(t *testing.T) {
	p := filters.Place(filters.Descriptor{Scale: 0.5}, 101, 101, 50, 50)

	assert.Equal(t, 26, p.X)
	assert.Equal(t, 26, p.Y)
}
