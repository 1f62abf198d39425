package segment

import (
	"time"

	"github.com/ignite/engage/internal/domain"
)

// Matches reports whether a single customer satisfies every condition of
// the rule. Conditions are a conjunction across fields and across the
// operators within a field. A customer with a null date field never
// satisfies a condition on that field.
func Matches(r *Rule, c *domain.Customer) bool {
	if r.TotalSpend != nil && !matchNumber(r.TotalSpend, c.TotalSpend) {
		return false
	}
	if r.TotalOrders != nil && !matchNumber(r.TotalOrders, float64(c.TotalOrders)) {
		return false
	}
	if r.LastOrderDate != nil {
		if c.LastOrderDate == nil || !matchDate(r.LastOrderDate, *c.LastOrderDate) {
			return false
		}
	}
	if r.CreatedAt != nil && !matchDate(r.CreatedAt, c.CreatedAt) {
		return false
	}
	return true
}

// Evaluate applies the rule to an in-memory candidate set and returns the
// matching subset, preserving input order. It never mutates its input and
// is idempotent; this is the preview path, and must agree with the
// SQL path produced by QueryBuilder for the same rule and data.
func Evaluate(r *Rule, customers []domain.Customer) []domain.Customer {
	matched := make([]domain.Customer, 0, len(customers))
	for i := range customers {
		if Matches(r, &customers[i]) {
			matched = append(matched, customers[i])
		}
	}
	return matched
}

func matchNumber(c *NumberClause, v float64) bool {
	if c.Gt != nil && !(v > *c.Gt) {
		return false
	}
	if c.Gte != nil && !(v >= *c.Gte) {
		return false
	}
	if c.Lt != nil && !(v < *c.Lt) {
		return false
	}
	if c.Lte != nil && !(v <= *c.Lte) {
		return false
	}
	if c.Eq != nil && v != *c.Eq {
		return false
	}
	return true
}

func matchDate(c *DateClause, t time.Time) bool {
	if c.Gt != nil && !t.After(*c.Gt) {
		return false
	}
	if c.Gte != nil && t.Before(*c.Gte) {
		return false
	}
	if c.Lt != nil && !t.Before(*c.Lt) {
		return false
	}
	if c.Lte != nil && t.After(*c.Lte) {
		return false
	}
	if c.Eq != nil && !t.Equal(*c.Eq) {
		return false
	}
	return true
}
