package model

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authormodel "bookstore-catalog/internal/domains/author/model"
	categorymodel "bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/shared/listing"
)

func strPtr(s string) *string { return &s }

func TestCreateBookRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateBookRequest
		invalid string
	}{
		{name: "minimal", req: CreateBookRequest{Title: "Dune"}},
		{name: "full", req: CreateBookRequest{Title: "Dune", PublishedAt: strPtr("1965-08-01"), AuthorIDs: []int64{1, 2}, CategoryIDs: []int64{3}}},
		{name: "datetime", req: CreateBookRequest{Title: "Dune", PublishedAt: strPtr("1965-08-01T10:00:00Z")}},
		{name: "missing title", req: CreateBookRequest{}, invalid: "title"},
		{name: "bad date", req: CreateBookRequest{Title: "Dune", PublishedAt: strPtr("August 1965")}, invalid: "publishedAt"},
		{name: "zero author id", req: CreateBookRequest{Title: "Dune", AuthorIDs: []int64{1, 0}}, invalid: "authorIds"},
		{name: "negative category id", req: CreateBookRequest{Title: "Dune", CategoryIDs: []int64{-4}}, invalid: "categoryIds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.invalid == "" {
				assert.NoError(t, err)
				return
			}
			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs, tt.invalid)
		})
	}
}

func TestCreateBookRequest_ToInput(t *testing.T) {
	in := CreateBookRequest{
		Title:       "Dune",
		PublishedAt: strPtr("1965-08-01"),
		AuthorIDs:   []int64{2, 1, 2},
	}.ToInput()

	assert.Equal(t, []int64{1, 2}, in.AuthorIDs)
	assert.NotNil(t, in.CategoryIDs)
	assert.Empty(t, in.CategoryIDs)
	require.NotNil(t, in.PublishedAt)
	assert.Equal(t, time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC), *in.PublishedAt)
}

func TestUpdateBookRequest_DistinguishesOmittedFromEmpty(t *testing.T) {
	var req UpdateBookRequest
	require.NoError(t, json.Unmarshal([]byte(`{"authorIds":[]}`), &req))
	require.NoError(t, req.Validate())

	in := req.ToInput()
	assert.NotNil(t, in.AuthorIDs)
	assert.Empty(t, in.AuthorIDs)
	assert.Nil(t, in.CategoryIDs)
	assert.False(t, in.IsEmpty())

	var empty UpdateBookRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.True(t, empty.ToInput().IsEmpty())
}

func TestUpdateBookRequest_RejectsBlankTitle(t *testing.T) {
	err := UpdateBookRequest{Title: strPtr("")}.Validate()

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "title")
}

func TestParseBookFilter(t *testing.T) {
	f, err := ParseBookFilter(url.Values{"authorId": {"3"}, "categoryId": {"7"}, "search": {"dune"}, "page": {"2"}})
	require.NoError(t, err)
	require.NotNil(t, f.AuthorID)
	require.NotNil(t, f.CategoryID)
	assert.Equal(t, int64(3), *f.AuthorID)
	assert.Equal(t, int64(7), *f.CategoryID)
	assert.Equal(t, "dune", f.Search)
	assert.Equal(t, 2, f.Page)

	f, err = ParseBookFilter(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, f.AuthorID)
	assert.Nil(t, f.CategoryID)

	_, err = ParseBookFilter(url.Values{"authorId": {"x"}, "pageSize": {"101"}, "categoryId": {"0"}})
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "authorId")
	assert.Contains(t, errs, "categoryId")
	assert.Contains(t, errs, "pageSize")
}

func TestBookFilter_Matches(t *testing.T) {
	b := Book{
		ID:          1,
		Title:       "Dune",
		Description: strPtr("Desert planet saga"),
		Authors:     []authormodel.Author{{ID: 1}},
		Categories:  []categorymodel.Category{{ID: 4}},
	}
	id := func(v int64) *int64 { return &v }

	tests := []struct {
		name   string
		filter BookFilter
		want   bool
	}{
		{name: "no criteria", filter: BookFilter{}, want: true},
		{name: "title", filter: BookFilter{Params: search("DUNE")}, want: true},
		{name: "description", filter: BookFilter{Params: search("planet")}, want: true},
		{name: "no text match", filter: BookFilter{Params: search("ocean")}, want: false},
		{name: "author", filter: BookFilter{AuthorID: id(1)}, want: true},
		{name: "other author", filter: BookFilter{AuthorID: id(2)}, want: false},
		{name: "author and category", filter: BookFilter{AuthorID: id(1), CategoryID: id(4)}, want: true},
		{name: "author and other category", filter: BookFilter{AuthorID: id(1), CategoryID: id(5)}, want: false},
		{name: "search and author", filter: BookFilter{Params: search("desert"), AuthorID: id(2)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(b))
		})
	}
}

func TestBook_InUTC_NeverNilAssociations(t *testing.T) {
	b := Book{ID: 1, Title: "Dune"}.InUTC()

	assert.NotNil(t, b.Authors)
	assert.NotNil(t, b.Categories)

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"authors":[]`)
	assert.Contains(t, string(out), `"categories":[]`)
	assert.Contains(t, string(out), `"description":null`)
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, 404, ToHTTPStatus(ErrBookNotFound, false))
	assert.Equal(t, 400, ToHTTPStatus(ErrInvalidAuthorReference, false))
	assert.Equal(t, 400, ToHTTPStatus(ErrInvalidCategoryReference, false))
	assert.Equal(t, 500, ToHTTPStatus(ErrBookNotFound, true))
	assert.Equal(t, 500, ToHTTPStatus(ErrInvalidAuthorReference, true))

	assert.Equal(t, "authorIds", ReferenceField(ErrInvalidAuthorReference))
	assert.Equal(t, "categoryIds", ReferenceField(ErrInvalidCategoryReference))
	assert.Equal(t, "", ReferenceField(ErrBookNotFound))
}

func search(s string) listing.Params {
	p := listing.DefaultParams()
	p.Search = s
	return p
}
