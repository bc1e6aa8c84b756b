package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkContentShortInput(t *testing.T) {
	chunks := ChunkContent("short", 100, 10)
	assert.Equal(t, []string{"short"}, chunks)
}

func TestChunkContentOverlap(t *testing.T) {
	content := strings.Repeat("abcdefghij", 10) // 100 runes
	chunks := ChunkContent(content, 40, 10)

	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 40)
	}
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		tail := string(prev[len(prev)-10:])
		assert.True(t, strings.HasPrefix(chunks[i], tail), "chunks share the overlap window")
	}
}

func TestChunkContentRejoins(t *testing.T) {
	content := strings.Repeat("0123456789", 7)
	chunks := ChunkContent(content, 25, 0)

	assert.Equal(t, content, strings.Join(chunks, ""), "zero overlap partitions the content exactly")
}

func TestChunkContentOverlapAtLeastChunkSize(t *testing.T) {
	content := strings.Repeat("x", 50)
	chunks := ChunkContent(content, 20, 20)

	assert.Equal(t, 3, len(chunks), "degenerate overlap falls back to disjoint chunks")
}
