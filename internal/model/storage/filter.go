package storage

import (
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/model/customerr"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Op string

const (
	OpEq Op = "eq"
	OpNe Op = "ne"
	OpGt Op = "gt"
	OpLt Op = "lt"
	OpGe Op = "ge"
	OpLe Op = "le"
	OpIn Op = "in"
)

var opAliases = map[string]Op{
	"eq": OpEq, "==": OpEq,
	"ne": OpNe, "!=": OpNe,
	"gt": OpGt, ">": OpGt,
	"lt": OpLt, "<": OpLt,
	"ge": OpGe, ">=": OpGe,
	"le": OpLe, "<=": OpLe,
	"in": OpIn,
}

// ParseOp accepts both the short names and the comparison symbols.
func ParseOp(s string) (Op, bool) {
	op, ok := opAliases[strings.ToLower(s)]
	return op, ok
}

// Filter restricts a query to rows whose Field compares to Value by Op.
// For OpIn, Value must be a slice.
type Filter struct {
	Field string
	Op    Op
	Value any
}

func Where(field string, op Op, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

func (f Filter) sqlizer(column string) (sq.Sqlizer, error) {
	v := plain(f.Value)
	switch f.Op {
	case OpEq, "":
		return sq.Eq{column: v}, nil
	case OpNe:
		return sq.NotEq{column: v}, nil
	case OpGt:
		return sq.Gt{column: v}, nil
	case OpLt:
		return sq.Lt{column: v}, nil
	case OpGe:
		return sq.GtOrEq{column: v}, nil
	case OpLe:
		return sq.LtOrEq{column: v}, nil
	case OpIn:
		list, ok := v.([]any)
		if !ok {
			return nil, customerr.Invalid(f.Field, "in filter needs a list of values")
		}
		return sq.Eq{column: list}, nil
	default:
		return nil, customerr.Invalid(f.Field, "unknown filter operator %q", f.Op)
	}
}

// plain turns domain values into what the drivers bind directly.
func plain(v any) any {
	switch val := v.(type) {
	case ledger.Date:
		return val.String()
	case ledger.TransactionType:
		return string(val)
	case ledger.IntervalType:
		return string(val)
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = plain(val[i])
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i := range val {
			out[i] = val[i]
		}
		return out
	case []int64:
		out := make([]any, len(val))
		for i := range val {
			out[i] = val[i]
		}
		return out
	default:
		return v
	}
}

func parseFilter(col column, field, expr string) (Filter, error) {
	op := OpEq
	raw := expr
	if head, tail, found := strings.Cut(expr, ":"); found {
		if parsed, ok := ParseOp(head); ok {
			op, raw = parsed, tail
		}
	}

	if op == OpIn {
		parts := strings.Split(raw, ",")
		values := make([]any, 0, len(parts))
		for _, p := range parts {
			v, err := col.kind.parse(field, strings.TrimSpace(p))
			if err != nil {
				return Filter{}, err
			}
			values = append(values, v)
		}
		return Where(field, op, values), nil
	}

	v, err := col.kind.parse(field, raw)
	if err != nil {
		return Filter{}, err
	}
	return Where(field, op, v), nil
}

func (k kind) parse(field, raw string) (any, error) {
	switch k {
	case kindInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, customerr.Invalid(field, "%q is not an integer", raw)
		}
		return v, nil
	case kindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, customerr.Invalid(field, "%q is not a number", raw)
		}
		return v, nil
	case kindDate:
		d, err := ledger.ParseDate(raw)
		if err != nil {
			return nil, customerr.Invalid(field, "%q is not a YYYY-MM-DD date", raw)
		}
		return d, nil
	default:
		return raw, nil
	}
}

// Page selects one slice of an id-ordered listing. Numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// NewPage fills zero values with defaults and rejects out of range ones.
func NewPage(number, size int) (Page, error) {
	p := Page{Number: number, Size: size}
	if p.Number == 0 {
		p.Number = 1
	}
	if p.Size == 0 {
		p.Size = DefaultPageSize
	}
	if p.Number < 1 {
		return Page{}, customerr.Invalid("page", "must be at least 1")
	}
	if p.Size < 1 || p.Size > MaxPageSize {
		return Page{}, customerr.Invalid("per_page", "must be between 1 and %d", MaxPageSize)
	}
	return p, nil
}

// AllRows is a page large enough for exports and batch jobs.
var AllRows = Page{Number: 1, Size: -1}

func (p Page) offset() uint64 {
	return uint64((p.Number - 1) * p.Size)
}
