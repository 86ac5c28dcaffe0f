// Package listing implements the pagination, search and ordering contract shared
// by every list endpoint of the catalog.
package listing

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*pageSize inside int for every accepted page size.
	MaxPage = math.MaxInt / MaxPageSize
)

// Params is the common part of every listing criteria.
type Params struct {
	Page     int
	PageSize int
	Search   string
}

// DefaultParams returns page 1 with the default page size.
func DefaultParams() Params {
	return Params{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Skip is the number of matching items before the requested page. It
// saturates at math.MaxInt instead of wrapping.
func (p Params) Skip() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Take is the maximum number of items on the requested page.
func (p Params) Take() int {
	return p.PageSize
}

// HasSearch reports whether a non-empty search term was supplied.
func (p Params) HasSearch() bool {
	return p.Search != ""
}

// Validate enforces the page bounds. A page size above MaxPageSize is rejected, never clamped.
func (p Params) Validate() error {
	return validation.Errors{
		"page":     validation.Validate(p.Page, validation.Min(1).Error("must be a positive integer"), validation.Max(MaxPage).Error(pageTooLarge)),
		"pageSize": validation.Validate(p.PageSize, validation.Min(1).Error("must be a positive integer"), validation.Max(MaxPageSize).Error("must be less than or equal to 100")),
	}.Filter()
}

var pageTooLarge = "must be less than or equal to " + strconv.Itoa(MaxPage)

// Result is what a repository returns for a list call. Total counts every match
// before pagination was applied.
type Result[T any] struct {
	Items []T
	Total int
}

// Page is the HTTP envelope of a listing.
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// NewPage wraps a repository result for the given params. Items are never encoded as null.
func NewPage[T any](res Result[T], p Params) Page[T] {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Page: p.Page, PageSize: p.PageSize, Total: res.Total}
}

// Map converts the items of a result, keeping the total.
func Map[T, U any](res Result[T], fn func(T) U) Result[U] {
	out := make([]U, len(res.Items))
	for i, item := range res.Items {
		out[i] = fn(item)
	}
	return Result[U]{Items: out, Total: res.Total}
}

// ParseParams reads page, pageSize and search from a query string.
// Missing values fall back to the defaults; malformed or out of range values
// are reported as validation.Errors keyed by query field.
func ParseParams(q url.Values) (Params, error) {
	p := DefaultParams()
	errs := validation.Errors{}

	if v, err := PositiveInt(q, "page"); err != nil {
		errs["page"] = err
	} else if v != nil {
		if *v > MaxPage {
			errs["page"] = validation.NewError("validation_max_less_equal_than_required", pageTooLarge)
		} else {
			p.Page = *v
		}
	}

	if v, err := PositiveInt(q, "pageSize"); err != nil {
		errs["pageSize"] = err
	} else if v != nil {
		if *v > MaxPageSize {
			errs["pageSize"] = validation.NewError("validation_max_less_equal_than_required", "must be less than or equal to 100")
		} else {
			p.PageSize = *v
		}
	}

	p.Search = q.Get("search")

	if len(errs) > 0 {
		return p, errs
	}
	return p, nil
}

// PositiveInt parses an optional positive integer query value. It returns nil
// when the key is absent or empty.
func PositiveInt(q url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, validation.NewError("validation_is_int", "must be an integer")
	}
	if n < 1 {
		return nil, validation.NewError("validation_min_greater_equal_than_required", "must be a positive integer")
	}
	return &n, nil
}

// Apply runs the listing contract over an in-memory collection: filter with
// match, count, order by id descending, then cut the requested page.
func Apply[T any](all []T, p Params, match func(T) bool, idOf func(T) int64) Result[T] {
	matched := make([]T, 0, len(all))
	for _, item := range all {
		if match == nil || match(item) {
			matched = append(matched, item)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return idOf(matched[i]) > idOf(matched[j])
	})

	total := len(matched)
	start := p.Skip()
	if start < 0 || start >= total {
		return Result[T]{Items: []T{}, Total: total}
	}
	end := total
	if take := p.Take(); take >= 0 && take < total-start {
		end = start + take
	}

	page := make([]T, end-start)
	copy(page, matched[start:end])
	return Result[T]{Items: page, Total: total}
}

// ContainsFold reports whether needle occurs in haystack ignoring case. It
// folds with strings.ToLower, which agrees with Postgres ILIKE for ASCII; for
// letters whose case mapping depends on locale (e.g. İ, ß) the memory and
// Postgres stores may disagree.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// likeEscaper escapes the ILIKE wildcards so a search term matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern builds the ILIKE argument for a substring search.
func LikePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
