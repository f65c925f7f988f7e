// Package database builds parameterized list queries for the
// repositories. Identifiers are quoted with pgx, values always travel
// as placeholders.
package database

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType names a SQL comparison operator.
type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThanOrEqual ConditionType = ">="
	LessThanOrEqual    ConditionType = "<="
	Like               ConditionType = "LIKE"
	ILike              ConditionType = "ILIKE"
	In                 ConditionType = "IN"
)

// unsetPage marks limit/offset as not requested.
const unsetPage = -1

// Condition is a single WHERE predicate. Either Field/Type/Value is
// set, or raw holds a prewritten fragment with its own arguments.
type Condition struct {
	Field   string
	Type    ConditionType
	Value   any
	raw     string
	rawArgs []any
}

// WhereCond builds a field-operator-value predicate.
func WhereCond(field string, op ConditionType, value any) Condition {
	return Condition{Field: field, Type: op, Value: value}
}

// WhereRawCond builds a predicate from a raw SQL fragment. Placeholders
// in the fragment are numbered from $1 and renumbered when the query is
// assembled. The fragment is emitted verbatim, so it must never contain
// user input.
func WhereRawCond(fragment string, args ...any) Condition {
	return Condition{raw: fragment, rawArgs: args}
}

// ListQueryOptions describes a list query over a single table.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

// ListQueryOption mutates ListQueryOptions.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions applies opts over defaults for the given table.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	o := &ListQueryOptions{
		Table:  table,
		Limit:  unsetPage,
		Offset: unsetPage,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithColumns sets the columns to select. Without it the query selects *.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition appends one WHERE predicate. Predicates are ANDed.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithOrderBy sets the sort column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit sets the LIMIT. Zero is a valid limit; negatives are ignored.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the OFFSET. Zero is valid; negatives are ignored.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// quoteIdent quotes an identifier, handling qualified names like
// "animals.name".
func quoteIdent(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// args collects query arguments and hands out numbered placeholders.
type args struct {
	values []any
}

func (a *args) add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

var rawPlaceholder = regexp.MustCompile(`\$(\d+)`)

// renderCondition returns the SQL for one condition, appending its
// values to a. Conditions that cannot produce valid SQL render empty
// and are skipped by the caller.
func renderCondition(c Condition, a *args) string {
	if c.raw != "" {
		return renderRawCondition(c, a)
	}
	if c.Field == "" {
		return ""
	}
	field := quoteIdent(c.Field)

	switch c.Type {
	case In:
		rv := reflect.ValueOf(c.Value)
		if rv.Kind() != reflect.Slice || rv.Len() == 0 {
			return ""
		}
		ph := make([]string, rv.Len())
		for i := range ph {
			ph[i] = a.add(rv.Index(i).Interface())
		}
		return fmt.Sprintf("%s IN (%s)", field, strings.Join(ph, ", "))
	case Equal, NotEqual, GreaterThanOrEqual, LessThanOrEqual, Like, ILike:
		return fmt.Sprintf("%s %s %s", field, c.Type, a.add(c.Value))
	}
	return ""
}

// renderRawCondition renumbers the fragment's $n placeholders into the
// shared argument list. A placeholder referenced twice binds the same
// value once.
func renderRawCondition(c Condition, a *args) string {
	seen := make(map[int]string)
	return rawPlaceholder.ReplaceAllStringFunc(c.raw, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(c.rawArgs) {
			return m
		}
		if ph, ok := seen[n]; ok {
			return ph
		}
		ph := a.add(c.rawArgs[n-1])
		seen[n] = ph
		return ph
	})
}

// BuildListQuery assembles a SELECT statement and its arguments from
// options.
//
//	query, args := BuildListQuery(NewListQueryOptions("animals",
//		WithColumns("id", "name", "species"),
//		WithCondition(WhereCond("species", Equal, "Giraffe")),
//		WithOrderBy("created_at", "DESC"),
//		WithLimit(20),
//	))
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var (
		q strings.Builder
		a args
	)

	q.WriteString("SELECT ")
	if len(options.Columns) == 0 {
		q.WriteString("*")
	} else {
		quoted := make([]string, len(options.Columns))
		for i, col := range options.Columns {
			quoted[i] = quoteIdent(col)
		}
		q.WriteString(strings.Join(quoted, ", "))
	}
	q.WriteString(" FROM ")
	q.WriteString(quoteIdent(options.Table))

	var predicates []string
	for _, cond := range options.Conditions {
		if sql := renderCondition(cond, &a); sql != "" {
			predicates = append(predicates, sql)
		}
	}
	if len(predicates) > 0 {
		q.WriteString(" WHERE ")
		q.WriteString(strings.Join(predicates, " AND "))
	}

	if options.OrderBy != "" {
		q.WriteString(" ORDER BY ")
		q.WriteString(quoteIdent(options.OrderBy))
		if dir := strings.ToUpper(options.OrderDir); dir == "ASC" || dir == "DESC" {
			q.WriteString(" ")
			q.WriteString(dir)
		}
	}
	if options.Limit != unsetPage {
		q.WriteString(" LIMIT ")
		q.WriteString(a.add(options.Limit))
	}
	if options.Offset != unsetPage {
		q.WriteString(" OFFSET ")
		q.WriteString(a.add(options.Offset))
	}

	return q.String(), a.values
}
