package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New([]int64{42, 7, 42, 0, -3})

	assert.True(t, s.IsAdmin(42))
	assert.True(t, s.IsAdmin(7))
	assert.False(t, s.IsAdmin(8))
	assert.False(t, s.IsAdmin(0))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Enabled())
}

func TestEmptySetGrantsNothing(t *testing.T) {
	for _, s := range []Set{{}, New(nil), New([]int64{})} {
		assert.False(t, s.IsAdmin(1))
		assert.False(t, s.Enabled())
	}
}
