package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := matrixCachePath(dir, "dataset", "corpus", "fake", 3)

	vectors := [][]float32{
		{1, 2, 3},
		{-1.5, 0, 4.25},
		{0, 0, 0},
	}
	require.NoError(t, saveMatrix(path, vectors))

	got, ok := loadMatrix(path, 3, 3)
	require.True(t, ok)
	assert.Equal(t, vectors, got)
}

func TestLoadMatrix_MissingFileIsNotOK(t *testing.T) {
	_, ok := loadMatrix("/nonexistent/path.f32", 3, 3)
	assert.False(t, ok)
}

func TestLoadMatrix_WrongShapeIsNotOK(t *testing.T) {
	dir := t.TempDir()
	path := matrixCachePath(dir, "dataset", "corpus", "fake", 2)
	require.NoError(t, saveMatrix(path, [][]float32{{1, 2}, {3, 4}}))

	_, ok := loadMatrix(path, 3, 2) // wrong dimension
	assert.False(t, ok)
}
