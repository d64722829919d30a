package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical non-zero vectors score 1", func(t *testing.T) {
		v := []float32{0.3, -1.2, 4.5, 0.01}
		sim, err := CosineSimilarity(v, v)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, float64(sim), 1e-6)
	})

	t.Run("zero vector scores 0", func(t *testing.T) {
		zero := []float32{0, 0, 0}
		other := []float32{1, 2, 3}

		sim, err := CosineSimilarity(zero, other)
		require.NoError(t, err)
		assert.Equal(t, float32(0), sim)

		sim, err = CosineSimilarity(other, zero)
		require.NoError(t, err)
		assert.Equal(t, float32(0), sim)
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, float64(sim), 1e-6)
	})

	t.Run("dimension mismatch errors", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
		assert.Error(t, err)
	})

	t.Run("empty vectors error", func(t *testing.T) {
		_, err := CosineSimilarity(nil, []float32{1})
		assert.Error(t, err)
	})
}

func TestVectorCodec(t *testing.T) {
	encoded, err := EncodeVector([]float32{0.5, -1, 2.25})
	require.NoError(t, err)

	decoded, err := DecodeVector(encoded)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1, 2.25}, decoded)
}

func TestDecodeVectorRejectsGarbage(t *testing.T) {
	_, err := DecodeVector("not json")
	assert.Error(t, err)

	_, err = DecodeVector("")
	assert.Error(t, err)
}
