package numeric

import (
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

func TestRound(t *testing.T) {
	cases := []struct {
		x        float64
		decimals int
		want     float64
	}{
		{0.0012817, 5, 0.00128},
		{0.0133951, 5, 0.0134},
		{1.008674, 5, 1.00867},
		{-2.472714, 5, -2.47271},
		{228.6307066, 3, 228.631},
		{2.5, 0, 2},
		{3.5, 0, 4},
		{1234.5, -1, 1230},
	}

	for _, c := range cases {
		assert.Equal(t, Round(c.x, c.decimals), c.want, "Round(%v, %d)", c.x, c.decimals)
	}
}

func TestRoundNonFinite(t *testing.T) {
	assert.Assert(t, math.IsNaN(Round(math.NaN(), 3)))
	assert.Equal(t, Round(math.Inf(1), 3), math.Inf(1))
}

func TestRoundAll(t *testing.T) {
	in := []float64{1.23456, 2.34567}
	out := RoundAll(in, 2)
	assert.DeepEqual(t, out, []float64{1.23, 2.35})
	assert.Equal(t, in[0], 1.23456, "input must not be modified")
}

func TestIsClose(t *testing.T) {
	assert.Assert(t, IsClose(1.0, 1.0+1e-9, DefaultRtol, DefaultAtol))
	assert.Assert(t, IsClose(100.0, 100.0009, 1e-5, 0))
	assert.Assert(t, !IsClose(100.0, 100.002, 1e-5, 0))
	assert.Assert(t, IsClose(0, 1e-9, 0, DefaultAtol))
	assert.Assert(t, !IsClose(math.NaN(), math.NaN(), 1, 1))
	assert.Assert(t, IsClose(math.Inf(1), math.Inf(1), 0, 0))
	assert.Assert(t, !IsClose(math.Inf(1), 1e300, 1, 1))
}

func TestAllClose(t *testing.T) {
	a := []float64{1, 2, 3}
	assert.Assert(t, AllClose(a, []float64{1, 2, 3.00001}, 1e-5, 0))
	assert.Assert(t, !AllClose(a, []float64{1, 2}, 1, 1))
	assert.Assert(t, !AllClose(a, []float64{1, 2, 4}, 1e-5, 1e-8))
	assert.Assert(t, AllClose(nil, []float64{}, 0, 0))
}

func TestEqual(t *testing.T) {
	assert.Assert(t, Equal([]float64{1.02, 1.0}, []float64{1.02, 1}))
	assert.Assert(t, !Equal([]float64{1.02, 1.0}, []float64{1.02}))
	assert.Assert(t, !Equal([]float64{1.02}, []float64{1.0200001}))
	assert.Assert(t, EqualStrings([]string{"Slack", "PV"}, []string{"Slack", "PV"}))
	assert.Assert(t, !EqualStrings([]string{"Slack", "PV"}, []string{"Slack", "PQ"}))
}
