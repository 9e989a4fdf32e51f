package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constInit(v float64) func() float64 {
	return func() float64 { return v }
}

func TestNewLayerSizes(t *testing.T) {
	net, err := New(Topology{2, 2, 1}, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 3, net.NumLayers())

	wantLen := []int{3, 3, 1}
	wantConns := []int{2, 1, 0}
	for l := 0; l < net.NumLayers(); l++ {
		layer := net.Layer(l)
		assert.Equal(t, wantLen[l], layer.Len(), "layer %d", l)
		for i := 0; i < layer.Len(); i++ {
			assert.Len(t, layer.Neuron(i).Connections(), wantConns[l], "layer %d neuron %d", l, i)
			assert.Equal(t, i, layer.Neuron(i).Index())
		}
	}

	assert.True(t, net.Layer(0).HasBias())
	assert.True(t, net.Layer(1).HasBias())
	assert.False(t, net.Layer(2).HasBias())
	assert.Nil(t, net.Layer(2).Bias())
	assert.Equal(t, 1.0, net.Layer(0).Bias().Output())
	assert.Equal(t, 1.0, net.Layer(1).Bias().Output())
}

func TestNewInvalid(t *testing.T) {
	for _, topo := range []Topology{nil, {3}, {2, 0, 1}, {2, -1}} {
		_, err := New(topo, DefaultConfig())
		assert.ErrorIs(t, err, ErrTopology, "topology %v", topo)
	}

	cfg := DefaultConfig()
	cfg.Eta = -0.1
	_, err := New(Topology{2, 1}, cfg)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestInitialWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	a, err := New(Topology{3, 5, 2}, cfg)
	require.NoError(t, err)
	b, err := New(Topology{3, 5, 2}, cfg)
	require.NoError(t, err)

	for l := 0; l < a.NumLayers()-1; l++ {
		wa, wb := a.Weights(l), b.Weights(l)
		r, c := wa.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				v := wa.At(i, j)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.Less(t, v, 1.0)
				assert.Equal(t, v, wb.At(i, j), "same seed must give the same weights")
			}
		}
	}
}

func TestFeedForwardHandComputed(t *testing.T) {
	net, err := newNetwork(Topology{2, 2, 1}, DefaultConfig(), constInit(0.5))
	require.NoError(t, err)

	require.NoError(t, net.FeedForward([]float64{0, 0}))

	// hidden: sigmoid(0*0.5 + 0*0.5 + 1*0.5)
	hidden := net.Layer(1)
	assert.InDelta(t, 0.6224593312018546, hidden.Neuron(0).Output(), 1e-12)
	assert.InDelta(t, 0.6224593312018546, hidden.Neuron(1).Output(), 1e-12)
	assert.Equal(t, 1.0, hidden.Bias().Output())

	// output: sigmoid(2*0.62245...*0.5 + 1*0.5)
	res := net.Results()
	require.Len(t, res, 1)
	assert.InDelta(t, 0.7544446121327283, res[0], 1e-12)
}

func TestFeedForwardShapeMismatch(t *testing.T) {
	net, err := newNetwork(Topology{2, 2, 1}, DefaultConfig(), constInit(0.5))
	require.NoError(t, err)

	err = net.FeedForward([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrShape)
	err = net.FeedForward(nil)
	assert.ErrorIs(t, err, ErrShape)
	assert.Equal(t, []float64{0}, net.Results())
}

func TestBackPropShapeMismatch(t *testing.T) {
	net, err := newNetwork(Topology{2, 2, 1}, DefaultConfig(), constInit(0.5))
	require.NoError(t, err)
	require.NoError(t, net.FeedForward([]float64{1, 0}))

	before := net.Weights(1)
	err = net.BackProp([]float64{1, 0})
	assert.ErrorIs(t, err, ErrShape)
	assert.Equal(t, before, net.Weights(1))
	assert.Zero(t, net.RecentAverageLoss())
}

func TestResultsIdempotent(t *testing.T) {
	net, err := New(Topology{2, 3, 2}, DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, net.FeedForward([]float64{0.3, 0.9}))

	first := net.Results()
	second := net.Results()
	assert.Equal(t, first, second)

	first[0] = 42
	assert.NotEqual(t, 42.0, net.Results()[0])
}

func TestBackPropLoss(t *testing.T) {
	net, err := newNetwork(Topology{2, 2, 1}, DefaultConfig(), constInit(0.5))
	require.NoError(t, err)
	require.NoError(t, net.FeedForward([]float64{0, 0}))
	require.NoError(t, net.BackProp([]float64{1}))

	const out = 0.7544446121327283
	assert.InDelta(t, 1-out, net.Loss(), 1e-12)
	assert.InDelta(t, (1-out)/101, net.RecentAverageLoss(), 1e-12)
	assert.InDelta(t, (1-out)*out*(1-out), net.Layer(2).Neuron(0).Gradient(), 1e-12)
}

func TestBackPropRMSLoss(t *testing.T) {
	net, err := newNetwork(Topology{1, 2}, DefaultConfig(), constInit(0))
	require.NoError(t, err)
	require.NoError(t, net.FeedForward([]float64{1}))
	// both outputs are sigmoid(0) = 0.5
	require.NoError(t, net.BackProp([]float64{1, 0}))
	assert.InDelta(t, 0.5, net.Loss(), 1e-12)
}

// The hidden gradient must be computed from the weights as they were before
// the output layer's update.
func TestBackPropGradientsBeforeUpdates(t *testing.T) {
	net, err := newNetwork(Topology{1, 1, 1}, DefaultConfig(), constInit(0.5))
	require.NoError(t, err)
	require.NoError(t, net.FeedForward([]float64{1}))
	require.NoError(t, net.BackProp([]float64{0}))

	h := sigmoid(0.5*1 + 0.5*1)
	o := sigmoid(0.5*h + 0.5)
	gOut := (0 - o) * o * (1 - o)
	gHidden := 0.5 * gOut * h * (1 - h)

	w0 := net.Weights(0)
	assert.InDelta(t, 0.5+0.15*1*gHidden, w0.At(0, 0), 1e-12)
	assert.InDelta(t, 0.5+0.15*1*gHidden, w0.At(1, 0), 1e-12)

	w1 := net.Weights(1)
	assert.InDelta(t, 0.5+0.15*h*gOut, w1.At(0, 0), 1e-12)
	assert.InDelta(t, 0.5+0.15*1*gOut, w1.At(1, 0), 1e-12)
}

func TestBiasNeverWritten(t *testing.T) {
	net, err := New(Topology{2, 3, 3, 1}, DefaultConfig())
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		require.NoError(t, net.FeedForward([]float64{float64(i % 2), 0.25}))
		require.NoError(t, net.BackProp([]float64{float64(i % 2)}))
	}
	for l := 0; l < net.NumLayers()-1; l++ {
		assert.Equal(t, 1.0, net.Layer(l).Bias().Output(), "layer %d", l)
	}
}

func TestTopologyIsCopied(t *testing.T) {
	topo := Topology{2, 2, 1}
	net, err := New(topo, DefaultConfig())
	require.NoError(t, err)
	topo[0] = 9
	got := net.Topology()
	assert.Equal(t, Topology{2, 2, 1}, got)
	got[1] = 9
	assert.Equal(t, 2, net.Topology()[1])
	assert.Equal(t, 2, got.Inputs())
	assert.Equal(t, 1, got.Outputs())
}

func TestWeightsPanicsOnOutputLayer(t *testing.T) {
	net, err := New(Topology{2, 1}, DefaultConfig())
	require.NoError(t, err)
	r, c := net.Weights(0).Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 1, c)
	assert.Panics(t, func() { net.Weights(1) })
}

func TestXORLearnable(t *testing.T) {
	samples := []struct {
		in, out []float64
	}{
		{[]float64{0, 0}, []float64{0}},
		{[]float64{0, 1}, []float64{1}},
		{[]float64{1, 0}, []float64{1}},
		{[]float64{1, 1}, []float64{0}},
	}
	const epochs = 5000

	for seed := uint64(1); seed <= 5; seed++ {
		cfg := DefaultConfig()
		cfg.Seed = seed
		net, err := New(Topology{2, 4, 1}, cfg)
		require.NoError(t, err)

		var early float64
		for epoch := 0; epoch < epochs; epoch++ {
			for _, s := range samples {
				require.NoError(t, net.FeedForward(s.in))
				require.NoError(t, net.BackProp(s.out))
			}
			if epoch == 499 {
				early = net.RecentAverageLoss()
			}
		}

		final := net.RecentAverageLoss()
		if final >= 0.1 {
			t.Logf("seed %d: loss %.4f after %d epochs", seed, final, epochs)
			continue
		}
		assert.Less(t, final, early)
		for _, s := range samples {
			require.NoError(t, net.FeedForward(s.in))
			assert.InDelta(t, s.out[0], net.Results()[0], 0.5, "input %v", s.in)
		}
		return
	}
	t.Fatalf("no seed reached a running loss below 0.1 in %d epochs", epochs)
}

func TestSigmoidDerivativeUsesOutput(t *testing.T) {
	y := sigmoid(0.8)
	h := 1e-6
	numeric := (sigmoid(0.8+h) - sigmoid(0.8-h)) / (2 * h)
	assert.InDelta(t, numeric, sigmoidDerivative(y), 1e-9)
	assert.InDelta(t, 0.5, sigmoid(0), 1e-15)
	assert.False(t, math.IsNaN(sigmoid(-1000)))
}
