package embedding_test

import (
	"strings"
	"testing"

	"codelens/internal/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_RespectsMaxCount(t *testing.T) {
	texts := make([]string, 10)
	for i := range texts {
		texts[i] = "x"
	}
	batches := embedding.Batch(texts, 3, 0)
	require.Len(t, batches, 4)
	for _, b := range batches[:3] {
		assert.Len(t, b, 3)
	}
	assert.Len(t, batches[3], 1)
}

func TestBatch_RespectsTokenBudget(t *testing.T) {
	big := strings.Repeat("a", 30) // ~10 tokens at 3 chars/token
	texts := []string{big, big, big}
	batches := embedding.Batch(texts, 10, 20)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 1)
}

func TestBatch_OversizeSingleSentAlone(t *testing.T) {
	huge := strings.Repeat("a", 1000)
	texts := []string{"small", huge, "small2"}
	batches := embedding.Batch(texts, 10, 20)
	require.Len(t, batches, 3)
	assert.Equal(t, []string{"small"}, batches[0])
	assert.Equal(t, []string{huge}, batches[1])
	assert.Equal(t, []string{"small2"}, batches[2])
}

func TestBatch_Empty(t *testing.T) {
	assert.Nil(t, embedding.Batch(nil, 10, 100))
}
