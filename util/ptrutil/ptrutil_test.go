package ptrutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPtr(t *testing.T) {
	v := ToPtr(int64(320))
	assert.NotNil(t, v)
	assert.Equal(t, int64(320), *v)
}
