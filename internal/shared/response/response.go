package response

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	CodeValidation = "ValidationError"
	CodeConflict   = "ConflictError"
	MsgInternal    = "Internal Server Error"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string  `json:"error"`
	Message string  `json:"message,omitempty"`
	Issues  []Issue `json:"issues,omitempty"`
}

// Issue points at one invalid input field.
type Issue struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Success writes data as the whole response body.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Error writes {"error": message}.
func Error(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{Error: message})
}

// ValidationFailed writes 400 with the issues extracted from err.
func ValidationFailed(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
		Error:  CodeValidation,
		Issues: IssuesFrom(err),
	})
}

// InvalidField writes 400 with a single issue on field.
func InvalidField(c *gin.Context, field, message string) {
	ValidationFailed(c, validation.Errors{field: errors.New(message)})
}

// Conflict writes 409 {"error":"ConflictError","message":...}.
func Conflict(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusConflict, ErrorBody{Error: CodeConflict, Message: message})
}

// NotFound writes 404 {"error": message}.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalServerError logs err and writes 500. The cause is only exposed in debug mode.
func InternalServerError(c *gin.Context, err error) {
	log.Error().
		Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Request failed")

	message := MsgInternal
	if gin.Mode() == gin.DebugMode && err != nil {
		message = err.Error()
	}
	Error(c, http.StatusInternalServerError, message)
}

// IssuesFrom flattens ozzo validation errors into a stable, path-sorted issue list.
// Any other error becomes a single issue with an empty path.
func IssuesFrom(err error) []Issue {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return []Issue{{Path: []string{}, Message: err.Error()}}
	}

	var issues []Issue
	collectIssues(nil, verrs, &issues)
	sort.SliceStable(issues, func(i, j int) bool {
		return strings.Join(issues[i].Path, ".") < strings.Join(issues[j].Path, ".")
	})
	return issues
}

func collectIssues(prefix []string, verrs validation.Errors, out *[]Issue) {
	for field, err := range verrs {
		if err == nil {
			continue
		}
		path := append(append([]string{}, prefix...), field)

		var nested validation.Errors
		if errors.As(err, &nested) {
			collectIssues(path, nested, out)
			continue
		}
		*out = append(*out, Issue{Path: path, Message: err.Error()})
	}
}
