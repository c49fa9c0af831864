package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testADSR() ADSR {
	return ADSR{
		Attack:  Linear{From: 0, To: 1, Dur: 0.1},
		Decay:   Linear{From: 1, To: 0.8, Dur: 0.2},
		Sustain: Constant{Value: 0.8},
		Release: Linear{From: 0.8, To: 0, Dur: 0.2},
	}
}

func TestADSRAttackDecaySustain(t *testing.T) {
	e := testADSR()

	assert.InDelta(t, 0.5, e.At(0.05, 0), 0.02)
	assert.InDelta(t, 0.9, e.At(0.2, 0), 0.02)
	assert.InDelta(t, 0.8, e.At(0.5, 0), 0.001)
}

func TestADSRRelease(t *testing.T) {
	e := testADSR()

	assert.InDelta(t, 0.4, e.At(0.6, 0.5), 0.02)
	assert.Equal(t, float32(0), e.At(0.8, 0.5))
	assert.True(t, e.Completed(0.8, 0.5))
	assert.False(t, e.Completed(0.69, 0.5))
}

func TestADSRCompletedImpliesZero(t *testing.T) {
	e := testADSR()
	for _, tt := range []struct{ time, off float64 }{
		{0.7, 0.5}, {1.0, 0.5}, {10.0, 0.5},
	} {
		if e.Completed(tt.time, tt.off) {
			assert.Equal(t, float32(0), e.At(tt.time, tt.off))
		}
	}
}

func TestADSRHeldNeverCompletes(t *testing.T) {
	e := testADSR()
	assert.False(t, e.Completed(1000, 0))
}

func TestSegmentBounds(t *testing.T) {
	lin := Linear{From: 1, To: 5, Dur: 2}
	assert.Equal(t, float32(1), lin.At(-1))
	assert.Equal(t, float32(5), lin.At(2))
	assert.Equal(t, float32(3), lin.At(0.5))

	bez := Bezier{From: 0, To: 1, Control: 0.5, Dur: 1}
	assert.Equal(t, float32(0), bez.At(0))
	assert.Equal(t, float32(1), bez.At(1))
}
