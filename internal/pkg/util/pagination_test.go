package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	limit, offset := Paginate(0, 0)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = Paginate(3, 10)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)

	limit, _ = Paginate(1, 1000)
	assert.Equal(t, 100, limit)
}

func TestParsePage(t *testing.T) {
	page, size := ParsePage("abc", "-1")
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	page, size = ParsePage("2", "15")
	assert.Equal(t, 2, page)
	assert.Equal(t, 15, size)
}
