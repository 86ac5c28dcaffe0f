package model

import (
	"errors"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/shared/utils"
)

// CreateBookRequest - POST /books
type CreateBookRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	PublishedAt *string `json:"publishedAt"`
	AuthorIDs   []int64 `json:"authorIds"`
	CategoryIDs []int64 `json:"categoryIds"`
}

// Validate checks the request body.
func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required")),
		validation.Field(&r.PublishedAt, validation.By(validDate)),
		validation.Field(&r.AuthorIDs, validation.Each(positiveID)),
		validation.Field(&r.CategoryIDs, validation.Each(positiveID)),
	)
}

// ToInput converts a validated request to repository input. Omitted id lists
// become empty sets.
func (r CreateBookRequest) ToInput() CreateBookInput {
	in := CreateBookInput{
		Title:       r.Title,
		Description: r.Description,
		PublishedAt: parseOptionalDate(r.PublishedAt),
		AuthorIDs:   utils.UniqueInt64s(r.AuthorIDs),
		CategoryIDs: utils.UniqueInt64s(r.CategoryIDs),
	}
	return in
}

// UpdateBookRequest - PUT /books/:id. Every field is optional; JSON null is
// treated like an omitted field.
type UpdateBookRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PublishedAt *string `json:"publishedAt"`
	AuthorIDs   []int64 `json:"authorIds"`
	CategoryIDs []int64 `json:"categoryIds"`
}

// Validate checks the request body.
func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("title must not be empty")),
		validation.Field(&r.PublishedAt, validation.By(validDate)),
		validation.Field(&r.AuthorIDs, validation.Each(positiveID)),
		validation.Field(&r.CategoryIDs, validation.Each(positiveID)),
	)
}

// ToInput converts a validated request to repository input.
func (r UpdateBookRequest) ToInput() UpdateBookInput {
	in := UpdateBookInput{
		Title:       r.Title,
		Description: r.Description,
		PublishedAt: parseOptionalDate(r.PublishedAt),
	}
	// An empty JSON array decodes to a non-nil slice and must stay non-nil.
	if r.AuthorIDs != nil {
		in.AuthorIDs = utils.UniqueInt64s(r.AuthorIDs)
	}
	if r.CategoryIDs != nil {
		in.CategoryIDs = utils.UniqueInt64s(r.CategoryIDs)
	}
	return in
}

var positiveID = validation.Min(int64(1)).Error("must be a positive integer")

func validDate(value interface{}) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	if _, err := utils.ParseDate(*s); err != nil {
		return validation.NewError("validation_date", "must be a date (YYYY-MM-DD) or an RFC 3339 date-time")
	}
	return nil
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := utils.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &t
}

// ParseBookFilter reads the common listing params plus authorId and categoryId.
func ParseBookFilter(q url.Values) (BookFilter, error) {
	errs := validation.Errors{}

	params, err := listing.ParseParams(q)
	if err != nil {
		var perrs validation.Errors
		if !errors.As(err, &perrs) {
			return BookFilter{}, err
		}
		for k, v := range perrs {
			errs[k] = v
		}
	}

	filter := BookFilter{Params: params}
	if v, err := listing.PositiveInt(q, "authorId"); err != nil {
		errs["authorId"] = err
	} else if v != nil {
		id := int64(*v)
		filter.AuthorID = &id
	}
	if v, err := listing.PositiveInt(q, "categoryId"); err != nil {
		errs["categoryId"] = err
	} else if v != nil {
		id := int64(*v)
		filter.CategoryID = &id
	}

	if len(errs) > 0 {
		return filter, errs
	}
	return filter, nil
}
