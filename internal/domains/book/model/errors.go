package model

import (
	"errors"
	"net/http"
)

var (
	ErrBookNotFound             = errors.New("book not found")
	ErrInvalidAuthorReference   = errors.New("unknown author id")
	ErrInvalidCategoryReference = errors.New("unknown category id")
)

const (
	MsgBookNotFound = "Book not found"
)

// ToHTTPStatus converts error to HTTP status code. In legacy mode unknown
// books and dangling references surface as 500, like any other failure.
func ToHTTPStatus(err error, legacy bool) int {
	switch {
	case legacy:
		return http.StatusInternalServerError
	case errors.Is(err, ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidAuthorReference), errors.Is(err, ErrInvalidCategoryReference):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ReferenceField names the request field a reference error points at, or "".
func ReferenceField(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAuthorReference):
		return "authorIds"
	case errors.Is(err, ErrInvalidCategoryReference):
		return "categoryIds"
	default:
		return ""
	}
}
