// Package segment implements the segmentation rule engine: validation of
// loosely-typed rule documents, in-memory audience evaluation, and
// translation of rules into SQL for store-backed evaluation.
package segment

import (
	"encoding/json"
	"time"
)

// Operator is a comparison operator in the rule wire format.
type Operator string

const (
	OpGt  Operator = "$gt"
	OpGte Operator = "$gte"
	OpLt  Operator = "$lt"
	OpLte Operator = "$lte"
	OpEq  Operator = "$eq"
)

// Operators lists the recognized comparators in a stable order.
func Operators() []Operator {
	return []Operator{OpGt, OpGte, OpLt, OpLte, OpEq}
}

// Field is a recognized customer attribute a rule may filter on.
type Field string

const (
	FieldTotalSpend    Field = "totalSpend"
	FieldTotalOrders   Field = "totalOrders"
	FieldLastOrderDate Field = "lastOrderDate"
	FieldCreatedAt     Field = "createdAt"
)

// Fields lists the recognized fields in a stable order.
func Fields() []Field {
	return []Field{FieldTotalSpend, FieldTotalOrders, FieldLastOrderDate, FieldCreatedAt}
}

// NumberClause holds the comparator values present for a numeric field.
// A nil pointer means the comparator is absent.
type NumberClause struct {
	Gt  *float64
	Gte *float64
	Lt  *float64
	Lte *float64
	Eq  *float64
}

// DateClause holds the comparator values present for a date field.
type DateClause struct {
	Gt  *time.Time
	Gte *time.Time
	Lt  *time.Time
	Lte *time.Time
	Eq  *time.Time
}

// Rule is a validated segment rule. It is a closed type over the four
// recognized fields, so an unknown field cannot be represented at all;
// "unknown field" only exists at the Validate boundary. A Rule with all
// clauses nil matches every customer.
type Rule struct {
	TotalSpend    *NumberClause
	TotalOrders   *NumberClause
	LastOrderDate *DateClause
	CreatedAt     *DateClause
}

// IsEmpty reports whether the rule carries no conditions at all.
func (r *Rule) IsEmpty() bool {
	return r.TotalSpend == nil && r.TotalOrders == nil &&
		r.LastOrderDate == nil && r.CreatedAt == nil
}

// MarshalJSON renders the rule back into the wire format:
// {"totalSpend":{"$gte":100},...}. Dates serialize as RFC 3339.
func (r *Rule) MarshalJSON() ([]byte, error) {
	out := map[string]map[string]any{}

	num := func(f Field, c *NumberClause) {
		if c == nil {
			return
		}
		m := map[string]any{}
		if c.Gt != nil {
			m[string(OpGt)] = *c.Gt
		}
		if c.Gte != nil {
			m[string(OpGte)] = *c.Gte
		}
		if c.Lt != nil {
			m[string(OpLt)] = *c.Lt
		}
		if c.Lte != nil {
			m[string(OpLte)] = *c.Lte
		}
		if c.Eq != nil {
			m[string(OpEq)] = *c.Eq
		}
		out[string(f)] = m
	}
	date := func(f Field, c *DateClause) {
		if c == nil {
			return
		}
		m := map[string]any{}
		if c.Gt != nil {
			m[string(OpGt)] = c.Gt.Format(time.RFC3339)
		}
		if c.Gte != nil {
			m[string(OpGte)] = c.Gte.Format(time.RFC3339)
		}
		if c.Lt != nil {
			m[string(OpLt)] = c.Lt.Format(time.RFC3339)
		}
		if c.Lte != nil {
			m[string(OpLte)] = c.Lte.Format(time.RFC3339)
		}
		if c.Eq != nil {
			m[string(OpEq)] = c.Eq.Format(time.RFC3339)
		}
		out[string(f)] = m
	}

	num(FieldTotalSpend, r.TotalSpend)
	num(FieldTotalOrders, r.TotalOrders)
	date(FieldLastOrderDate, r.LastOrderDate)
	date(FieldCreatedAt, r.CreatedAt)

	return json.Marshal(out)
}

// UnmarshalJSON parses a wire-format document through Validate, so a Rule
// decoded from storage carries the same guarantees as one validated at the
// API boundary.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := Validate(raw)
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}
