package model

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateName is returned both by the service pre-check and by the
	// stores when their uniqueness constraint fires.
	ErrDuplicateName = errors.New("category name already exists")
)

const (
	MsgDuplicateName = "A record with this name already exists"
)

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrDuplicateName):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
