package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

const (
	// TopBooksLimit is how many books the ranking keeps.
	TopBooksLimit = 5
	// SampleSize is how many of the newest books the ranking and averages look at.
	SampleSize = 100

	MsgQueued         = "Report generation queued"
	MsgReportNotFound = "Report not found"
)

var (
	// ErrReportNotFound means nothing is cached for the user: the job is still
	// pending, it failed, or the result expired.
	ErrReportNotFound = errors.New("report not found")
)

// Report is the catalog summary a worker computes and caches per user.
type Report struct {
	UserID                string          `json:"userId"`
	Totals                Totals          `json:"totals"`
	TopBooks              []TopBook       `json:"topBooks"`
	AverageAuthorsPerBook decimal.Decimal `json:"averageAuthorsPerBook"`
	GeneratedAt           time.Time       `json:"generatedAt"`
}

type Totals struct {
	Authors    int `json:"authors"`
	Categories int `json:"categories"`
	Books      int `json:"books"`
}

// TopBook is a book ranked by how many authors and categories it links to.
type TopBook struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Links int    `json:"links"`
}

// CacheKey is where the report of a user lives.
func CacheKey(userID string) string {
	return "report:" + userID
}

// RequestReportRequest - POST /report
type RequestReportRequest struct {
	UserID int64 `json:"userId"`
}

// Validate checks the request body.
func (r RequestReportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID,
			validation.Required.Error("userId is required"),
			validation.Min(int64(1)).Error("must be a positive integer"),
		),
	)
}

// ParseUserID reads the userId query value of GET /report.
func ParseUserID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", validation.Errors{"userId": validation.NewError("validation_required", "userId is required")}
	}
	return id, nil
}
