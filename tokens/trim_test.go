package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrim(t *testing.T) {
	c := NewEstimatingCounter()
	text := strings.Repeat("a", 200) + strings.Repeat("z", 200) // 100 tokens

	tests := []struct {
		name      string
		strategy  Strategy
		max       int
		hasPrefix string
		hasSuffix string
	}{
		{"end keeps start", TrimEnd, 20, "aaaa", EllipsisMarker},
		{"start keeps end", TrimStart, 20, EllipsisMarker, "zzzz"},
		{"middle keeps both", TrimMiddle, 30, "aaaa", "zzzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cut := Trim(c, text, tt.max, tt.strategy)

			assert.True(t, cut)
			assert.True(t, c.FitsInLimit(got, tt.max), "got %d tokens, max %d", c.Count(got), tt.max)
			assert.True(t, strings.HasPrefix(got, tt.hasPrefix))
			assert.True(t, strings.HasSuffix(got, tt.hasSuffix))
		})
	}
}

func TestTrimMiddleMarker(t *testing.T) {
	c := NewEstimatingCounter()
	got, cut := Trim(c, strings.Repeat("a", 200)+strings.Repeat("z", 200), 30, TrimMiddle)

	assert.True(t, cut)
	assert.Contains(t, got, MiddleMarker)
}

func TestTrimFits(t *testing.T) {
	c := NewEstimatingCounter()
	got, cut := Trim(c, "short note", 100, TrimEnd)

	assert.False(t, cut)
	assert.Equal(t, "short note", got)
}

func TestTrimNoRoom(t *testing.T) {
	c := NewEstimatingCounter()

	for _, s := range []Strategy{TrimEnd, TrimMiddle, TrimStart} {
		got, cut := Trim(c, strings.Repeat("x", 100), 1, s)
		assert.True(t, cut)
		assert.Empty(t, got)
	}
}

func TestTrimKeepsRunesWhole(t *testing.T) {
	c := NewEstimatingCounter()
	got, _ := Trim(c, strings.Repeat("ñ", 100), 10, TrimEnd)

	assert.True(t, strings.HasPrefix(got, "ñ"))
	assert.NotContains(t, got, "�")
}
