package krw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWon(t *testing.T) {
	assert.Equal(t, "1,200,000원", Won(1200000))
	assert.Equal(t, "0원", Won(0))
	assert.Equal(t, "999", Group(999))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "3.1%", Percent(3.1))
}
