package segment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueryEmptyRule(t *testing.T) {
	qb := NewQueryBuilder()
	query, args := qb.BuildQuery("owner-1", &Rule{})

	assert.Equal(t,
		"SELECT "+customerColumns+" FROM customers WHERE owner_id = $1 ORDER BY created_at DESC",
		query)
	assert.Equal(t, []any{"owner-1"}, args)
}

func TestBuildQueryNumberAndDateConditions(t *testing.T) {
	rule, err := Validate(map[string]any{
		"totalSpend":    map[string]any{"$gte": 100.0, "$lte": 500.0},
		"lastOrderDate": map[string]any{"$gt": "2025-01-01"},
	})
	require.NoError(t, err)

	qb := NewQueryBuilder()
	query, args := qb.BuildQuery("owner-1", rule)

	assert.Contains(t, query, "owner_id = $1")
	assert.Contains(t, query, "total_spend >= $2")
	assert.Contains(t, query, "total_spend <= $3")
	assert.Contains(t, query, "last_order_date > $4")
	assert.Contains(t, query, "ORDER BY created_at DESC")

	require.Len(t, args, 4)
	assert.Equal(t, "owner-1", args[0])
	assert.Equal(t, 100.0, args[1])
	assert.Equal(t, 500.0, args[2])
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), args[3])
}

func TestBuildCountQuery(t *testing.T) {
	rule, err := Validate(map[string]any{
		"totalOrders": map[string]any{"$eq": 5.0},
	})
	require.NoError(t, err)

	qb := NewQueryBuilder()
	query, args := qb.BuildCountQuery("owner-2", rule)

	assert.Equal(t, "SELECT COUNT(*) FROM customers WHERE owner_id = $1 AND total_orders = $2", query)
	assert.Equal(t, []any{"owner-2", 5.0}, args)
}

func TestBuilderIsReusable(t *testing.T) {
	qb := NewQueryBuilder()
	_, first := qb.BuildQuery("owner-1", &Rule{})
	_, second := qb.BuildQuery("owner-2", &Rule{})

	assert.Equal(t, []any{"owner-1"}, first)
	assert.Equal(t, []any{"owner-2"}, second)
}
