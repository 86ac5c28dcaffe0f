package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookstore-catalog/internal/shared/listing"
)

func TestCreateCategoryRequest_Validate(t *testing.T) {
	assert.NoError(t, CreateCategoryRequest{Name: "Fantasy"}.Validate())
	assert.Error(t, CreateCategoryRequest{}.Validate())
}

func TestCategoryFilter_Matches(t *testing.T) {
	c := Category{ID: 1, Name: "Science Fiction"}

	assert.True(t, CategoryFilter{}.Matches(c))
	assert.True(t, CategoryFilter{Params: paramsWithSearch("FICTION")}.Matches(c))
	assert.False(t, CategoryFilter{Params: paramsWithSearch("poetry")}.Matches(c))
}

func paramsWithSearch(s string) listing.Params {
	p := listing.DefaultParams()
	p.Search = s
	return p
}
