package go2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointer(t *testing.T) {
	t.Parallel()

	p := Pointer(false)
	assert.False(t, *p)
	*p = true
	assert.True(t, *Pointer(*p))
}

func TestContains(t *testing.T) {
	t.Parallel()

	assert.True(t, Contains([]string{"svg", "png"}, "png"))
	assert.False(t, Contains([]string{"svg", "png"}, "gif"))
	assert.False(t, Contains(nil, "svg"))
}
