package segment

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Sentinel causes for rule validation failures. Callers match them with
// errors.Is on the *ValidationError returned by Validate.
var (
	ErrUnknownField        = errors.New("unknown segment field")
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrInvalidNumericValue = errors.New("invalid numeric value")
	ErrInvalidDateValue    = errors.New("invalid date value")
	ErrInvalidClause       = errors.New("invalid clause")
)

// ValidationError describes exactly which part of a rule document was
// rejected. It wraps one of the sentinel causes above.
type ValidationError struct {
	Cause error
	Field string
	Op    string
	Value any
}

func (e *ValidationError) Error() string {
	switch {
	case errors.Is(e.Cause, ErrUnknownField):
		return fmt.Sprintf("unknown segment field %q", e.Field)
	case errors.Is(e.Cause, ErrUnsupportedOperator):
		return fmt.Sprintf("unsupported operator %q for field %q", e.Op, e.Field)
	case errors.Is(e.Cause, ErrInvalidNumericValue):
		return fmt.Sprintf("invalid numeric value %v for %s.%s", e.Value, e.Field, e.Op)
	case errors.Is(e.Cause, ErrInvalidDateValue):
		return fmt.Sprintf("invalid date value %v for %s.%s", e.Value, e.Field, e.Op)
	default:
		return fmt.Sprintf("invalid clause for field %q", e.Field)
	}
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// Validate turns a loosely-typed rule document (decoded JSON from a form or
// an AI advisor) into a typed Rule. It is pure and deterministic: the same
// input always yields the same rule or the same error, and no condition is
// ever partially applied. An empty document yields the match-all rule.
func Validate(raw map[string]any) (*Rule, error) {
	rule := &Rule{}

	for field, clause := range raw {
		switch Field(field) {
		case FieldTotalSpend:
			c, err := numberClause(field, clause)
			if err != nil {
				return nil, err
			}
			rule.TotalSpend = c
		case FieldTotalOrders:
			c, err := numberClause(field, clause)
			if err != nil {
				return nil, err
			}
			rule.TotalOrders = c
		case FieldLastOrderDate:
			c, err := dateClause(field, clause)
			if err != nil {
				return nil, err
			}
			rule.LastOrderDate = c
		case FieldCreatedAt:
			c, err := dateClause(field, clause)
			if err != nil {
				return nil, err
			}
			rule.CreatedAt = c
		default:
			return nil, &ValidationError{Cause: ErrUnknownField, Field: field}
		}
	}

	return rule, nil
}

func clauseMap(field string, clause any) (map[string]any, error) {
	m, ok := clause.(map[string]any)
	if !ok {
		return nil, &ValidationError{Cause: ErrInvalidClause, Field: field, Value: clause}
	}
	return m, nil
}

func numberClause(field string, clause any) (*NumberClause, error) {
	m, err := clauseMap(field, clause)
	if err != nil {
		return nil, err
	}

	// Operator recognition comes before value coercion so a bad value
	// under a bogus operator still reports the operator.
	c := &NumberClause{}
	for op, v := range m {
		if !knownOperator(op) {
			return nil, &ValidationError{Cause: ErrUnsupportedOperator, Field: field, Op: op}
		}
		n, err := coerceNumber(v)
		if err != nil {
			return nil, &ValidationError{Cause: ErrInvalidNumericValue, Field: field, Op: op, Value: v}
		}
		switch Operator(op) {
		case OpGt:
			c.Gt = &n
		case OpGte:
			c.Gte = &n
		case OpLt:
			c.Lt = &n
		case OpLte:
			c.Lte = &n
		case OpEq:
			c.Eq = &n
		}
	}
	return c, nil
}

func knownOperator(op string) bool {
	switch Operator(op) {
	case OpGt, OpGte, OpLt, OpLte, OpEq:
		return true
	}
	return false
}

func dateClause(field string, clause any) (*DateClause, error) {
	m, err := clauseMap(field, clause)
	if err != nil {
		return nil, err
	}

	c := &DateClause{}
	for op, v := range m {
		if !knownOperator(op) {
			return nil, &ValidationError{Cause: ErrUnsupportedOperator, Field: field, Op: op}
		}
		t, err := coerceDate(v)
		if err != nil {
			return nil, &ValidationError{Cause: ErrInvalidDateValue, Field: field, Op: op, Value: v}
		}
		switch Operator(op) {
		case OpGt:
			c.Gt = &t
		case OpGte:
			c.Gte = &t
		case OpLt:
			c.Lt = &t
		case OpLte:
			c.Lte = &t
		case OpEq:
			c.Eq = &t
		}
	}
	return c, nil
}

// coerceNumber accepts the value shapes a decoded JSON document can carry
// (float64, json.Number, stringified numbers, ints from hand-built maps)
// and requires the result to be finite.
func coerceNumber(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %v", f)
	}
	return f, nil
}

// dateLayouts are the accepted literal formats, most specific first.
// ISO-8601 date strings are the documented wire format.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func coerceDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d.UTC(), nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable date: %q", d)
	default:
		return time.Time{}, fmt.Errorf("not a date: %T", v)
	}
}
