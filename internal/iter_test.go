package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := slices.All([]string{"a", "b"})
	b := slices.All([]string{"c"})

	var keys []int
	var values []string
	for k, v := range IterSeq2Concat(a, b) {
		keys = append(keys, k)
		values = append(values, v)
	}
	assert.Equal([]int{0, 1, 0}, keys)
	assert.Equal([]string{"a", "b", "c"}, values)

	// Early stop.
	values = values[:0]
	for _, v := range IterSeq2Concat(a, b) {
		values = append(values, v)
		break
	}
	assert.Equal([]string{"a"}, values)

	assert.Empty(maps.Collect(IterSeq2Concat[string, string]()))
}
