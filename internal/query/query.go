// Package query turns list-endpoint query strings into filtered, sorted,
// paginated, field-selected GORM queries. It replaces the original
// serialize-then-rewrite filter translation with an explicit typed
// filter-expression builder, so operator words can never be confused
// with field names.
package query

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Operator is a comparison operator allowed in query strings,
// written as ?field[op]=value.
type Operator string

const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

// Condition is one filter expression: field, operator, raw values.
type Condition struct {
	Field    string
	Operator Operator
	Values   []string
}

// Options is the parsed form of a list request's query string.
type Options struct {
	Conditions []Condition
	Select     []string
	Sort       []string
	Page       int
	Limit      int
	Populate   string
}

const (
	DefaultPage  = 1
	DefaultLimit = 25
	MaxLimit     = 100
)

// Reserved keys control presentation, not filtering.
var reservedKeys = map[string]bool{
	"select":   true,
	"sort":     true,
	"page":     true,
	"limit":    true,
	"populate": true,
}

var operatorKey = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\[(gt|gte|lt|lte|in)\]$`)

// Parse extracts filter conditions and presentation options from raw
// query values. Reserved keys are stripped before filter construction;
// any other key is an equality condition unless it carries an [op] suffix.
func Parse(values url.Values) Options {
	opts := Options{
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}

	if sel := values.Get("select"); sel != "" {
		opts.Select = splitAndTrim(sel)
	}
	if sort := values.Get("sort"); sort != "" {
		opts.Sort = splitAndTrim(sort)
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	if opts.Limit > MaxLimit {
		opts.Limit = MaxLimit
	}
	opts.Populate = values.Get("populate")

	for key, vals := range values {
		if reservedKeys[key] || len(vals) == 0 {
			continue
		}

		if m := operatorKey.FindStringSubmatch(key); m != nil {
			opts.Conditions = append(opts.Conditions, Condition{
				Field:    m[1],
				Operator: Operator(m[2]),
				Values:   []string{vals[0]},
			})
			continue
		}

		// No operator suffix: plain equality. A field that happens to be
		// named like an operator word stays an equality filter here.
		opts.Conditions = append(opts.Conditions, Condition{
			Field:    key,
			Operator: OpEq,
			Values:   []string{vals[0]},
		})
	}

	return opts
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Kind tells the builder how to bind a field's values.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	// KindContains matches membership in a JSON-serialized string slice.
	KindContains
)

// Field maps a query-string name onto a database column.
type Field struct {
	Column string
	Kind   Kind
}

// FieldMap is the per-entity whitelist of filterable/sortable/selectable
// fields. Query keys not present in the map are silently ignored.
type FieldMap map[string]Field

// Pagination carries the page-boundary metadata for a result window.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Result describes one page of a list query.
type Result struct {
	Count      int        `json:"count"`
	Total      int64      `json:"total"`
	Pagination Pagination `json:"pagination"`
}

// ApplyFilter adds WHERE clauses for every whitelisted condition.
func ApplyFilter(db *gorm.DB, fields FieldMap, conds []Condition) *gorm.DB {
	for _, cond := range conds {
		field, ok := fields[cond.Field]
		if !ok || len(cond.Values) == 0 {
			continue
		}

		switch cond.Operator {
		case OpEq:
			db = applyEq(db, field, cond.Values[0])
		case OpGt:
			db = db.Where(field.Column+" > ?", bindValue(field, cond.Values[0]))
		case OpGte:
			db = db.Where(field.Column+" >= ?", bindValue(field, cond.Values[0]))
		case OpLt:
			db = db.Where(field.Column+" < ?", bindValue(field, cond.Values[0]))
		case OpLte:
			db = db.Where(field.Column+" <= ?", bindValue(field, cond.Values[0]))
		case OpIn:
			var bound []interface{}
			for _, v := range strings.Split(cond.Values[0], ",") {
				bound = append(bound, bindValue(field, strings.TrimSpace(v)))
			}
			db = db.Where(field.Column+" IN ?", bound)
		}
	}
	return db
}

func applyEq(db *gorm.DB, field Field, raw string) *gorm.DB {
	switch field.Kind {
	case KindContains:
		// The column holds a JSON array of strings; membership is a
		// substring match on the serialized form. LIKE wildcards in the
		// value are escaped so they match literally.
		pattern := "%" + escapeLike(fmt.Sprintf("%q", raw)) + "%"
		return db.Where(field.Column+` LIKE ? ESCAPE '\'`, pattern)
	default:
		return db.Where(field.Column+" = ?", bindValue(field, raw))
	}
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

func bindValue(field Field, raw string) interface{} {
	switch field.Kind {
	case KindNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case KindBool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	}
	return raw
}

// ApplySort adds ORDER BY clauses in the listed order. A leading '-'
// means descending. Fields outside the whitelist are skipped; when
// nothing applies the default sort is newest-first.
func ApplySort(db *gorm.DB, fields FieldMap, sort []string) *gorm.DB {
	applied := false
	for _, entry := range sort {
		desc := strings.HasPrefix(entry, "-")
		name := strings.TrimPrefix(entry, "-")

		field, ok := fields[name]
		if !ok {
			continue
		}
		order := field.Column
		if desc {
			order += " DESC"
		}
		db = db.Order(order)
		applied = true
	}
	if !applied {
		db = db.Order("created_at DESC")
	}
	return db
}

// selectColumns maps the requested projection onto columns; the primary
// key is always included.
func selectColumns(fields FieldMap, sel []string) []string {
	cols := []string{"id"}
	for _, name := range sel {
		if field, ok := fields[name]; ok {
			cols = append(cols, field.Column)
		}
	}
	return cols
}

// Run executes a list query against db (which must already carry the
// entity model) and fills dest with one page of results. The total used
// for page arithmetic is counted against the filtered set.
func Run(db *gorm.DB, fields FieldMap, opts Options, preloads map[string]func(*gorm.DB) *gorm.DB, dest interface{}) (*Result, error) {
	filtered := ApplyFilter(db, fields, opts.Conditions)

	var total int64
	if err := filtered.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	q := filtered.Session(&gorm.Session{})
	if len(opts.Select) > 0 {
		q = q.Select(selectColumns(fields, opts.Select))
	}
	q = ApplySort(q, fields, opts.Sort)

	startIndex := (opts.Page - 1) * opts.Limit
	q = q.Offset(startIndex).Limit(opts.Limit)

	if opts.Populate != "" && preloads != nil {
		if apply, ok := preloads[opts.Populate]; ok {
			q = apply(q)
		}
	}

	if err := q.Find(dest).Error; err != nil {
		return nil, err
	}

	res := &Result{
		Total:      total,
		Pagination: Paginate(opts.Page, opts.Limit, total),
	}
	res.Count = lenOfSlice(dest)
	return res, nil
}

// Paginate computes next/prev page references for a result window.
// next exists iff page*limit < total; prev exists iff page > 1.
func Paginate(page, limit int, total int64) Pagination {
	var p Pagination
	if int64(page*limit) < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

// lenOfSlice returns the length of the *[]T dest was filled into.
func lenOfSlice(dest interface{}) int {
	v := reflect.ValueOf(dest)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() == reflect.Slice {
		return v.Len()
	}
	return 0
}
