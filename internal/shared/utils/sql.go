package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// JoinWithOr joins a slice of strings with OR operator
func JoinWithOr(clauses []string) string {
	return strings.Join(clauses, " OR ")
}

// WhereBuilder collects WHERE conditions together with their positional
// arguments so the same clause can feed both the count and the page query.
type WhereBuilder struct {
	clauses []string
	args    []any
}

// Arg registers a value and returns its placeholder ($1, $2, ...).
func (w *WhereBuilder) Arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// And appends a condition. Placeholders inside it must come from Arg.
func (w *WhereBuilder) And(clause string) {
	w.clauses = append(w.clauses, clause)
}

// AnyOf appends the OR of the given conditions as a single grouped condition.
func (w *WhereBuilder) AnyOf(clauses ...string) {
	if len(clauses) == 0 {
		return
	}
	w.And("(" + JoinWithOr(clauses) + ")")
}

// SQL renders the clause including the WHERE keyword, or an empty string.
func (w *WhereBuilder) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + JoinWithAnd(w.clauses)
}

// Args returns a copy of the collected arguments.
func (w *WhereBuilder) Args() []any {
	out := make([]any, len(w.args))
	copy(out, w.args)
	return out
}

// Next is the placeholder index the next argument would get.
func (w *WhereBuilder) Next() int {
	return len(w.args) + 1
}
