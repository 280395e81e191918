package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationNormalize(t *testing.T) {
	assert.Equal(t, PaginationRequest{Page: 1, Limit: DefaultPageSize}, PaginationRequest{}.Normalize())
	assert.Equal(t, PaginationRequest{Page: 3, Limit: MaxPageSize}, PaginationRequest{Page: 3, Limit: 1000}.Normalize())
	assert.Equal(t, 12, PaginationRequest{Page: 3, Limit: 6}.Offset())

	huge := PaginationRequest{Page: math.MaxInt, Limit: MaxPageSize}.Normalize()
	assert.Equal(t, MaxPage, huge.Page)
	assert.Positive(t, huge.Offset())

	res := NewPaginatedResponse([]int{}, 10, huge)
	assert.Nil(t, res.Next)
	if assert.NotNil(t, res.Previous) {
		assert.Equal(t, MaxPage-1, *res.Previous)
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	first := NewPaginatedResponse([]int{1, 2}, 5, PaginationRequest{Page: 1, Limit: 2})
	assert.EqualValues(t, 5, first.Count)
	if assert.NotNil(t, first.Next) {
		assert.Equal(t, 2, *first.Next)
	}
	assert.Nil(t, first.Previous)

	last := NewPaginatedResponse([]int{5}, 5, PaginationRequest{Page: 3, Limit: 2})
	assert.Nil(t, last.Next)
	if assert.NotNil(t, last.Previous) {
		assert.Equal(t, 2, *last.Previous)
	}

	empty := NewPaginatedResponse[int](nil, 0, PaginationRequest{Page: 1, Limit: 6})
	assert.NotNil(t, empty.Results)
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.NoError(t, verr.OrNil())

	verr.Add("tags", "at least one tag is required")
	verr.Add("cooking_time", "too small")
	verr.Add("tags", "tag 3 is listed more than once")

	assert.Error(t, verr.OrNil())
	assert.Equal(t,
		"validation failed: cooking_time: too small, tags: at least one tag is required; tag 3 is listed more than once",
		verr.Error())
}
