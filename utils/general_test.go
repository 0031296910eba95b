package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitCSV("a, b"))
	assert.Equal(t, []string{"a", "b"}, SplitCSV(",a,,b, "))
	assert.Empty(t, SplitCSV(""))
	assert.Empty(t, SplitCSV(" , ,"))
}

func TestClearDuplicateString(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ClearDuplicateString([]string{"a", "b", "a", "b"}))
	assert.Empty(t, ClearDuplicateString(nil))
}

func TestStringInSliceFold(t *testing.T) {
	assert.True(t, StringInSliceFold("facebook", []string{"Facebook", "Twitter"}))
	assert.False(t, StringInSliceFold("Reddit", []string{"Facebook", "Twitter"}))
}

func TestFilterStringSlice(t *testing.T) {
	out := FilterStringSlice([]string{"a", "bb", "c"}, func(s string) bool { return len(s) == 1 })
	assert.Equal(t, []string{"a", "c"}, out)
}

func TestMin(t *testing.T) {
	assert.Equal(t, 1, Min(1, 2))
	assert.Equal(t, 1, Min(2, 1))
}
