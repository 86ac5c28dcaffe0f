package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxBioLength = 1000
)

// CreateAuthorRequest - POST /authors
type CreateAuthorRequest struct {
	Name string  `json:"name"`
	Bio  *string `json:"bio"`
}

// Validate checks the request body.
func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.By(notBlank),
		),
		validation.Field(&r.Bio,
			validation.Length(0, MaxBioLength).Error("bio must be at most 1000 characters"),
		),
	)
}

// ToInput converts the request to repository input. The name is trimmed.
func (r CreateAuthorRequest) ToInput() CreateAuthorInput {
	return CreateAuthorInput{
		Name: strings.TrimSpace(r.Name),
		Bio:  r.Bio,
	}
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "must not be blank")
	}
	return nil
}
