package mailing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/engage/internal/domain"
)

func TestRenderPersonalization(t *testing.T) {
	ts := NewTemplateService()

	out, err := ts.Render("", "Hi {{ name }}, you have spent {{ total_spend | currency }}.", map[string]any{
		"name":        "Ada Lovelace",
		"total_spend": 1234.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada Lovelace, you have spent $1234.50.", out)
}

func TestRenderDefaultFilter(t *testing.T) {
	ts := NewTemplateService()

	out, err := ts.Render("", `Hi {{ nickname | default: "there" }}!`, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", out)
}

func TestRenderFirstNameFilter(t *testing.T) {
	ts := NewTemplateService()

	out, err := ts.Render("", "Hi {{ name | first_name }}", map[string]any{"name": "Ada Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada", out)
}

func TestRenderBadTemplateReturnsOriginal(t *testing.T) {
	ts := NewTemplateService()

	raw := "Hi {% if %} broken"
	out, err := ts.Render("", raw, map[string]any{})
	assert.Error(t, err)
	assert.Equal(t, raw, out)
}

func TestRenderUsesCompileCache(t *testing.T) {
	ts := NewTemplateService()

	first, err := ts.Render("campaign-1", "Hello {{ name }}", map[string]any{"name": "A"})
	require.NoError(t, err)
	second, err := ts.Render("campaign-1", "ignored because cached", map[string]any{"name": "B"})
	require.NoError(t, err)

	assert.Equal(t, "Hello A", first)
	assert.Equal(t, "Hello B", second)
}

func TestCustomerContext(t *testing.T) {
	last := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	c := &domain.Customer{Name: "Ada", Email: "ada@example.com", TotalSpend: 42, TotalOrders: 3, LastOrderDate: &last}

	ctx := CustomerContext(c)
	assert.Equal(t, "Ada", ctx["name"])
	assert.Equal(t, "2025-04-02", ctx["last_order_date"])

	delete(ctx, "last_order_date")
	assert.NotContains(t, CustomerContext(&domain.Customer{Name: "Bob"}), "last_order_date")
}
