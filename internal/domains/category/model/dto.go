package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateCategoryRequest - POST /categories
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// Validate checks the request body.
func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required")),
	)
}

// ToInput converts the request to repository input.
func (r CreateCategoryRequest) ToInput() CreateCategoryInput {
	return CreateCategoryInput{Name: r.Name}
}
