package sizebreak

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizes_KnownBreaks(t *testing.T) {
	tests := []struct {
		key   string
		count int
		first string
		last  string
	}{
		{"1", 9, "M4/W5.5", "M12/W13.5"},
		{"2", 7, "28", "40"},
		{"3", 6, "XS", "XXL"},
		{"4", 1, "One Size", "One Size"},
	}
	for _, tt := range tests {
		labels := Sizes(tt.key)
		assert.Len(t, labels, tt.count, "key %q", tt.key)
		assert.Equal(t, tt.first, labels[0])
		assert.Equal(t, tt.last, labels[len(labels)-1])
	}
}

func TestSizes_UnknownKey(t *testing.T) {
	assert.Empty(t, Sizes("9"))
	assert.Empty(t, Sizes(""))
	assert.Empty(t, Sizes("one"))
}

func TestSizes_ReturnsCopy(t *testing.T) {
	labels := Sizes("3")
	labels[0] = "mutated"
	assert.Equal(t, "XS", Sizes("3")[0])
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "1", Normalize(""))
	assert.Equal(t, "3", Normalize("3"))
	assert.Equal(t, "9", Normalize("9"))
}
