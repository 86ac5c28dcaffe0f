package response

import (
	"encoding/json"
	"errors"
	"io"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
)

// BindJSON decodes the request body into dst. An empty body decodes as {} so
// that field rules, not the decoder, report missing fields. On failure it
// writes the 400 response and returns false.
func BindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	ValidationFailed(c, bindError(err))
	return false
}

func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return validation.Errors{
			typeErr.Field: validation.NewError("validation_type", "expected "+typeErr.Type.String()+", received "+typeErr.Value),
		}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return errors.New("malformed JSON body")
	}
	return err
}
