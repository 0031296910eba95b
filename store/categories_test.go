package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTerms(t *testing.T) {
	assert.Equal(t,
		[]string{"#foo", "foo hotel"},
		normalizeTerms("Foo Hotel, #foo, foo hotel, "))
	assert.Empty(t, normalizeTerms(""))
	assert.Empty(t, normalizeTerms(" , "))
}
