package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitText_Empty(t *testing.T) {
	assert.Nil(t, SplitText("", 100, 20))
	assert.Nil(t, SplitText("   \n\t  ", 100, 20))
}

func TestSplitText_ShortTextSingleChunk(t *testing.T) {
	chunks := SplitText("hello world", 100, 20)

	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestSplitText_ChunksOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 runes
	chunks := SplitText(text, 40, 10)

	require.True(t, len(chunks) > 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 40)
	}

	// each chunk starts with the last 10 runes of the previous one
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		tail := string(prev[len(prev)-10:])
		assert.True(t, strings.HasPrefix(chunks[i], tail))
	}

	// reassembling without the overlapped prefixes yields the original text
	var sb strings.Builder
	sb.WriteString(chunks[0])
	for i := 1; i < len(chunks); i++ {
		sb.WriteString(string([]rune(chunks[i])[10:]))
	}
	assert.Equal(t, text, sb.String())
}

func TestSplitText_OverlapLargerThanChunkSize(t *testing.T) {
	text := strings.Repeat("x", 50)
	chunks := SplitText(text, 20, 30)

	// falls back to non-overlapping steps instead of looping forever
	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("x", 20), chunks[0])
	assert.Equal(t, strings.Repeat("x", 10), chunks[2])
}

func TestSplitText_MultibyteSafe(t *testing.T) {
	text := strings.Repeat("日本語テキスト分割", 10) // 80 runes
	chunks := SplitText(text, 30, 5)

	for _, c := range chunks {
		for _, r := range c {
			assert.NotEqual(t, '�', r)
		}
	}
}
