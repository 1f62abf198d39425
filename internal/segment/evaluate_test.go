package segment

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/engage/internal/domain"
)

func spendRule(t *testing.T, op string, v float64) *Rule {
	t.Helper()
	rule, err := Validate(map[string]any{"totalSpend": map[string]any{op: v}})
	require.NoError(t, err)
	return rule
}

func TestEvaluateSpendBoundaries(t *testing.T) {
	customers := []domain.Customer{
		{ID: "a", TotalSpend: 499},
		{ID: "b", TotalSpend: 500},
		{ID: "c", TotalSpend: 1000},
	}

	matched := Evaluate(spendRule(t, "$gte", 500), customers)
	require.Len(t, matched, 2)
	assert.Equal(t, "b", matched[0].ID)
	assert.Equal(t, "c", matched[1].ID)

	matched = Evaluate(spendRule(t, "$gt", 500), customers)
	require.Len(t, matched, 1)
	assert.Equal(t, "c", matched[0].ID)

	matched = Evaluate(spendRule(t, "$eq", 500), customers)
	require.Len(t, matched, 1)
	assert.Equal(t, "b", matched[0].ID)
}

func TestEvaluateEmptyRuleMatchesEveryone(t *testing.T) {
	customers := []domain.Customer{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	rule, err := Validate(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, customers, Evaluate(rule, customers))
}

func TestEvaluateConjunctionAcrossFields(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	customers := []domain.Customer{
		{ID: "rich-recent", TotalSpend: 900, LastOrderDate: &jun},
		{ID: "rich-stale", TotalSpend: 900, LastOrderDate: &jan},
		{ID: "poor-recent", TotalSpend: 10, LastOrderDate: &jun},
	}

	rule, err := Validate(map[string]any{
		"totalSpend":    map[string]any{"$gte": 500.0},
		"lastOrderDate": map[string]any{"$gte": "2025-06-01"},
	})
	require.NoError(t, err)

	matched := Evaluate(rule, customers)
	require.Len(t, matched, 1)
	assert.Equal(t, "rich-recent", matched[0].ID)
}

func TestEvaluateNullDateNeverMatches(t *testing.T) {
	never := domain.Customer{ID: "never-ordered", TotalSpend: 5000}
	rule, err := Validate(map[string]any{
		"lastOrderDate": map[string]any{"$lt": "2030-01-01"},
	})
	require.NoError(t, err)

	assert.Empty(t, Evaluate(rule, []domain.Customer{never}))
}

func TestEvaluateDateInstantSemantics(t *testing.T) {
	cutoff := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	before := cutoff.Add(-time.Second)
	after := cutoff.Add(time.Second)

	customers := []domain.Customer{
		{ID: "before", CreatedAt: before},
		{ID: "exact", CreatedAt: cutoff},
		{ID: "after", CreatedAt: after},
	}

	cases := []struct {
		op   string
		want []string
	}{
		{"$gt", []string{"after"}},
		{"$gte", []string{"exact", "after"}},
		{"$lt", []string{"before"}},
		{"$lte", []string{"before", "exact"}},
		{"$eq", []string{"exact"}},
	}
	for _, tc := range cases {
		rule, err := Validate(map[string]any{
			"createdAt": map[string]any{tc.op: "2025-03-01T00:00:00Z"},
		})
		require.NoError(t, err)
		var got []string
		for _, c := range Evaluate(rule, customers) {
			got = append(got, c.ID)
		}
		assert.Equal(t, tc.want, got, "operator %s", tc.op)
	}
}

func TestEvaluateMultipleOperatorsOnOneField(t *testing.T) {
	customers := []domain.Customer{
		{ID: "low", TotalSpend: 50},
		{ID: "mid", TotalSpend: 300},
		{ID: "high", TotalSpend: 900},
	}
	rule, err := Validate(map[string]any{
		"totalSpend": map[string]any{"$gte": 100.0, "$lte": 500.0},
	})
	require.NoError(t, err)

	matched := Evaluate(rule, customers)
	require.Len(t, matched, 1)
	assert.Equal(t, "mid", matched[0].ID)
}

// genCustomers builds arbitrary candidate sets for the property tests.
func genCustomers() gopter.Gen {
	genCustomer := gopter.CombineGens(
		gen.Identifier(),
		gen.Float64Range(0, 10000),
		gen.IntRange(0, 200),
	).Map(func(vals []any) domain.Customer {
		return domain.Customer{
			ID:          vals[0].(string),
			TotalSpend:  vals[1].(float64),
			TotalOrders: vals[2].(int),
			CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	})
	return gen.SliceOf(genCustomer)
}

func genSpendRule() gopter.Gen {
	return gen.Float64Range(0, 10000).Map(func(threshold float64) *Rule {
		rule, err := Validate(map[string]any{
			"totalSpend": map[string]any{"$gte": threshold},
		})
		if err != nil {
			panic(err)
		}
		return rule
	})
}

func TestEvaluateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("matched set is a subset of the input", prop.ForAll(
		func(rule *Rule, customers []domain.Customer) bool {
			byID := map[string]bool{}
			for _, c := range customers {
				byID[c.ID] = true
			}
			for _, m := range Evaluate(rule, customers) {
				if !byID[m.ID] {
					return false
				}
			}
			return true
		},
		genSpendRule(), genCustomers(),
	))

	properties.Property("evaluation is idempotent", prop.ForAll(
		func(rule *Rule, customers []domain.Customer) bool {
			once := Evaluate(rule, customers)
			twice := Evaluate(rule, once)
			if len(once) != len(twice) {
				return false
			}
			for i := range once {
				if once[i].ID != twice[i].ID {
					return false
				}
			}
			return true
		},
		genSpendRule(), genCustomers(),
	))

	properties.Property("empty rule matches the full input set", prop.ForAll(
		func(customers []domain.Customer) bool {
			return len(Evaluate(&Rule{}, customers)) == len(customers)
		},
		genCustomers(),
	))

	properties.Property("every matched customer satisfies the threshold", prop.ForAll(
		func(threshold float64, customers []domain.Customer) bool {
			rule, err := Validate(map[string]any{
				"totalSpend": map[string]any{"$gte": threshold},
			})
			if err != nil {
				return false
			}
			for _, m := range Evaluate(rule, customers) {
				if m.TotalSpend < threshold {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 10000), genCustomers(),
	))

	properties.TestingRun(t)
}
