package segment

import (
	"fmt"
	"strings"
)

// customerColumns is the select list every audience query returns, in the
// scan order the customer repository expects.
const customerColumns = "id, owner_id, name, email, COALESCE(phone,''), total_spend, total_orders, last_order_date, created_at"

// column maps rule fields onto customers table columns.
var column = map[Field]string{
	FieldTotalSpend:    "total_spend",
	FieldTotalOrders:   "total_orders",
	FieldLastOrderDate: "last_order_date",
	FieldCreatedAt:     "created_at",
}

// QueryBuilder translates a validated Rule into a parameterized SQL query
// against the customers table. Conditions are ANDed, matching Evaluate.
// SQL three-valued logic makes NULL date columns fail every comparison,
// which is exactly the null-never-matches semantic of the in-memory path.
type QueryBuilder struct {
	conds []string
	args  []any
}

// NewQueryBuilder creates an empty builder.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// BuildQuery returns a full SELECT for the owner's customers matching the
// rule, newest-first, with positional args starting at $1.
func (qb *QueryBuilder) BuildQuery(ownerID string, r *Rule) (string, []any) {
	where := qb.buildWhere(ownerID, r)
	query := fmt.Sprintf("SELECT %s FROM customers WHERE %s ORDER BY created_at DESC", customerColumns, where)
	return query, qb.args
}

// BuildCountQuery returns the matching-audience cardinality query.
func (qb *QueryBuilder) BuildCountQuery(ownerID string, r *Rule) (string, []any) {
	where := qb.buildWhere(ownerID, r)
	return "SELECT COUNT(*) FROM customers WHERE " + where, qb.args
}

func (qb *QueryBuilder) buildWhere(ownerID string, r *Rule) string {
	// Fresh slices per build so previously returned args stay valid.
	qb.conds = nil
	qb.args = nil

	qb.addCond("owner_id = %s", ownerID)

	qb.numberConds(FieldTotalSpend, r.TotalSpend)
	qb.numberConds(FieldTotalOrders, r.TotalOrders)
	qb.dateConds(FieldLastOrderDate, r.LastOrderDate)
	qb.dateConds(FieldCreatedAt, r.CreatedAt)

	return strings.Join(qb.conds, " AND ")
}

func (qb *QueryBuilder) addCond(format string, arg any) {
	qb.args = append(qb.args, arg)
	placeholder := fmt.Sprintf("$%d", len(qb.args))
	qb.conds = append(qb.conds, fmt.Sprintf(format, placeholder))
}

func (qb *QueryBuilder) numberConds(f Field, c *NumberClause) {
	if c == nil {
		return
	}
	col := column[f]
	if c.Gt != nil {
		qb.addCond(col+" > %s", *c.Gt)
	}
	if c.Gte != nil {
		qb.addCond(col+" >= %s", *c.Gte)
	}
	if c.Lt != nil {
		qb.addCond(col+" < %s", *c.Lt)
	}
	if c.Lte != nil {
		qb.addCond(col+" <= %s", *c.Lte)
	}
	if c.Eq != nil {
		qb.addCond(col+" = %s", *c.Eq)
	}
}

func (qb *QueryBuilder) dateConds(f Field, c *DateClause) {
	if c == nil {
		return
	}
	col := column[f]
	if c.Gt != nil {
		qb.addCond(col+" > %s", *c.Gt)
	}
	if c.Gte != nil {
		qb.addCond(col+" >= %s", *c.Gte)
	}
	if c.Lt != nil {
		qb.addCond(col+" < %s", *c.Lt)
	}
	if c.Lte != nil {
		qb.addCond(col+" <= %s", *c.Lte)
	}
	if c.Eq != nil {
		qb.addCond(col+" = %s", *c.Eq)
	}
}
