package recipe

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"fridge-planner/internal/core/graph"
	"fridge-planner/internal/core/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fridge(t *testing.T) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.FromDays(map[inventory.Category][]inventory.NamedDays{
		inventory.Starch:    {{Name: "bread", Days: 5}, {Name: "rice", Days: 2}},
		inventory.Meat:      {{Name: "chicken", Days: 3}, {Name: "duck", Days: 1}},
		inventory.Vegetable: {{Name: "carrot", Days: 4}, {Name: "pea", Days: 6}},
	})
	require.NoError(t, err)
	return inv
}

func labels(plan []ScoredRecipe) []string {
	out := make([]string, len(plan))
	for i, sr := range plan {
		out[i] = sr.Label
	}
	return out
}

type fakeRecorder struct {
	calls     int
	policy    string
	recipes   int
	leftovers int
}

func (f *fakeRecorder) ObservePlan(policy string, recipes, leftovers int, _ time.Duration) {
	f.calls++
	f.policy = policy
	f.recipes = recipes
	f.leftovers = leftovers
}

func TestPlan_SumPolicyRanksMostUrgentFirst(t *testing.T) {
	plan := NewPlanner(nil).Plan(fridge(t), Options{})

	require.Len(t, plan.Base, 2)
	assert.Equal(t, []string{"rice duck pea", "bread chicken carrot"}, labels(plan.Base))
	assert.Equal(t, 9, plan.Base[0].Score)
	assert.Equal(t, 12, plan.Base[1].Score)
	assert.Equal(t, "Day 0: Recipe with rice, duck, pea", plan.Base[0].String())
	assert.Equal(t, "Day 1: Recipe with bread, chicken, carrot", plan.Base[1].String())
	assert.Equal(t, "sum", plan.Policy)
	assert.Equal(t, "sequential", plan.Order)
	assert.Equal(t, 2, plan.NumColors)
	assert.Empty(t, plan.Leftovers)
	assert.NoError(t, plan.Condition)
	assert.NotEmpty(t, plan.ID)
}

func TestPlan_Favorites(t *testing.T) {
	t.Run("favorite already first keeps order", func(t *testing.T) {
		plan := NewPlanner(nil).Plan(fridge(t), Options{Favorites: []string{"duck"}})
		assert.Equal(t, labels(plan.Base), labels(plan.Preferred))
		assert.Equal(t, 1, plan.Matched)
	})

	t.Run("favorite moves its recipe to the front", func(t *testing.T) {
		plan := NewPlanner(nil).Plan(fridge(t), Options{Favorites: []string{"carrot"}})
		assert.Equal(t, []string{"bread chicken carrot", "rice duck pea"}, labels(plan.Preferred))
		assert.Equal(t, 0, plan.Preferred[0].Day)
		assert.Equal(t, 1, plan.Preferred[1].Day)
		// 基本菜單不受偏好影響
		assert.Equal(t, []string{"rice duck pea", "bread chicken carrot"}, labels(plan.Base))
	})

	t.Run("matching is exact and case sensitive", func(t *testing.T) {
		plan := NewPlanner(nil).Plan(fridge(t), Options{Favorites: []string{"Carrot", "car", ""}})
		assert.Equal(t, labels(plan.Base), labels(plan.Preferred))
		assert.Zero(t, plan.Matched)
	})
}

func TestPlan_MinPolicy(t *testing.T) {
	plan := NewPlanner(nil).Plan(fridge(t), Options{Policy: MinPolicy})
	require.Len(t, plan.Base, 2)
	assert.Equal(t, 1, plan.Base[0].Score)
	assert.Equal(t, 3, plan.Base[1].Score)
	assert.Equal(t, "min", plan.Policy)
}

func TestRank_TiesKeepColourOrder(t *testing.T) {
	mk := func(color int, s, m, v string) Recipe {
		return Recipe{Color: color, Items: []inventory.FoodItem{
			{Name: s, Category: inventory.Starch, RemainingDays: 2},
			{Name: m, Category: inventory.Meat, RemainingDays: 2},
			{Name: v, Category: inventory.Vegetable, RemainingDays: 2},
		}}
	}
	ranked := Rank([]Recipe{mk(0, "a", "b", "c"), mk(1, "d", "e", "f"), mk(2, "g", "h", "i")}, SumPolicy)
	assert.Equal(t, []string{"a b c", "d e f", "g h i"}, labels(ranked))
	for i, sr := range ranked {
		assert.Equal(t, i, sr.Day)
		assert.Equal(t, 6, sr.Score)
	}
}

func TestPlan_MinAndSumPoliciesDisagree(t *testing.T) {
	inv, err := inventory.FromDays(map[inventory.Category][]inventory.NamedDays{
		inventory.Starch:    {{Name: "bread", Days: 1}, {Name: "rice", Days: 10}},
		inventory.Meat:      {{Name: "chicken", Days: 20}, {Name: "duck", Days: 3}},
		inventory.Vegetable: {{Name: "carrot", Days: 20}, {Name: "pea", Days: 3}},
	})
	require.NoError(t, err)

	bySum := NewPlanner(nil).Plan(inv, Options{Policy: SumPolicy})
	assert.Equal(t, []string{"rice duck pea", "bread chicken carrot"}, labels(bySum.Base))
	assert.Equal(t, 16, bySum.Base[0].Score)
	assert.Equal(t, 41, bySum.Base[1].Score)

	byMin := NewPlanner(nil).Plan(inv, Options{Policy: MinPolicy})
	assert.Equal(t, []string{"bread chicken carrot", "rice duck pea"}, labels(byMin.Base))
	assert.Equal(t, 1, byMin.Base[0].Score)
	assert.Equal(t, 3, byMin.Base[1].Score)
}

func TestRank_MinPolicyTiesKeepColourOrder(t *testing.T) {
	mk := func(color int, names [3]string, days [3]int) Recipe {
		return Recipe{Color: color, Items: []inventory.FoodItem{
			{Name: names[0], Category: inventory.Starch, RemainingDays: days[0]},
			{Name: names[1], Category: inventory.Meat, RemainingDays: days[1]},
			{Name: names[2], Category: inventory.Vegetable, RemainingDays: days[2]},
		}}
	}
	recipes := []Recipe{
		mk(0, [3]string{"a", "b", "c"}, [3]int{9, 2, 9}),
		mk(1, [3]string{"d", "e", "f"}, [3]int{2, 3, 3}),
		mk(2, [3]string{"g", "h", "i"}, [3]int{1, 5, 5}),
		mk(3, [3]string{"j", "k", "l"}, [3]int{4, 4, 2}),
	}

	ranked := Rank(recipes, MinPolicy)
	assert.Equal(t, []string{"g h i", "a b c", "d e f", "j k l"}, labels(ranked))
	assert.Equal(t, []int{1, 2, 2, 2}, []int{ranked[0].Score, ranked[1].Score, ranked[2].Score, ranked[3].Score})

	// 同一批菜用 sum 排序時結果不同
	assert.Equal(t, []string{"d e f", "j k l", "g h i", "a b c"}, labels(Rank(recipes, SumPolicy)))
}

func TestPlan_ImbalancedCategoriesReportLeftovers(t *testing.T) {
	inv, err := inventory.FromDays(map[inventory.Category][]inventory.NamedDays{
		inventory.Starch:    {{Name: "bread", Days: 5}, {Name: "rice", Days: 2}, {Name: "pasta", Days: 9}},
		inventory.Meat:      {{Name: "chicken", Days: 3}},
		inventory.Vegetable: {{Name: "carrot", Days: 4}},
	})
	require.NoError(t, err)

	rec := &fakeRecorder{}
	plan := NewPlanner(rec).Plan(inv, Options{})

	require.Len(t, plan.Base, 1)
	assert.Equal(t, "bread chicken carrot", plan.Base[0].Label)
	require.Len(t, plan.Leftovers, 2)
	assert.Equal(t, "rice", plan.Leftovers[0].Name)
	assert.Equal(t, "pasta", plan.Leftovers[1].Name)
	assert.NoError(t, plan.Condition)

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, "sum", rec.policy)
	assert.Equal(t, 1, rec.recipes)
	assert.Equal(t, 2, rec.leftovers)
}

func TestPlan_RecipeCountBoundedBySmallestCategory(t *testing.T) {
	inv, err := inventory.FromDays(map[inventory.Category][]inventory.NamedDays{
		inventory.Starch:    {{Name: "s1", Days: 1}, {Name: "s2", Days: 2}, {Name: "s3", Days: 3}, {Name: "s4", Days: 4}},
		inventory.Meat:      {{Name: "m1", Days: 1}, {Name: "m2", Days: 2}},
		inventory.Vegetable: {{Name: "v1", Days: 1}, {Name: "v2", Days: 2}, {Name: "v3", Days: 3}},
	})
	require.NoError(t, err)

	for _, order := range []graph.NodeOrder{graph.SequentialOrder{}, graph.ShuffledOrder{Seed: 7}} {
		plan := NewPlanner(nil).Plan(inv, Options{Order: order})
		assert.LessOrEqual(t, len(plan.Base), 2, order.Name())

		used := map[string]bool{}
		for _, sr := range plan.Base {
			require.Len(t, sr.Recipe.Items, RecipeSize)
			for i, c := range inventory.Categories {
				assert.Equal(t, c, sr.Recipe.Items[i].Category)
				assert.False(t, used[sr.Recipe.Items[i].Key()], "item used twice")
				used[sr.Recipe.Items[i].Key()] = true
			}
		}
		assert.Equal(t, inv.Len(), len(used)+len(plan.Leftovers))
	}
}

func TestPlan_EmptyCategory(t *testing.T) {
	inv, err := inventory.FromDays(map[inventory.Category][]inventory.NamedDays{
		inventory.Starch:    {{Name: "bread", Days: 5}},
		inventory.Vegetable: {{Name: "carrot", Days: 4}},
	})
	require.NoError(t, err)

	plan := NewPlanner(nil).Plan(inv, Options{Favorites: []string{"bread"}})
	assert.True(t, plan.Empty())
	assert.Empty(t, plan.Preferred)
	assert.True(t, plan.IsInsufficient())
	assert.True(t, errors.Is(plan.Condition, ErrNoValidRecipe))
	assert.Contains(t, plan.Notice, "Meat")
}

func TestPartitionColors_IncompleteClasses(t *testing.T) {
	// 直接以不完整的著色檢查第二階段過濾
	inv := fridge(t)
	g := graph.BuildConflictGraph(inv)
	colors := graph.ColorAssignment{0, 1, 1, 2, 2, 0}
	part := PartitionColors(g, colors)

	assert.Len(t, part.Candidates, 3)
	assert.Empty(t, part.Recipes)
	assert.Len(t, part.Leftovers, 6)
	assert.Equal(t, "duck", part.Leftovers[0].Name)
}

func TestPlan_Idempotent(t *testing.T) {
	inv := fridge(t)
	opts := Options{Favorites: []string{"carrot"}, Order: graph.ShuffledOrder{Seed: 42}}
	first := NewPlanner(nil).Plan(inv, opts)
	second := NewPlanner(nil).Plan(inv, opts)

	assert.Equal(t, first.Base, second.Base)
	assert.Equal(t, first.Preferred, second.Preferred)
	assert.Equal(t, first.Leftovers, second.Leftovers)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestApplyPreferences_StablePermutation(t *testing.T) {
	plan := NewPlanner(nil).Plan(fridge(t), Options{}).Base
	matched, rest := ApplyPreferences(plan, []string{"pea", "chicken"})

	assert.Len(t, matched, 2)
	assert.Empty(t, rest)
	assert.Equal(t, labels(plan), labels(matched))

	preferred := PreferredOrder(plan, nil)
	assert.Equal(t, labels(plan), labels(preferred))
}

func TestParseScorePolicy(t *testing.T) {
	tests := []struct {
		raw     string
		want    ScorePolicy
		wantErr bool
	}{
		{"", SumPolicy, false},
		{"SUM", SumPolicy, false},
		{"min", MinPolicy, false},
		{"minimum", MinPolicy, false},
		{"max", "", true},
	}
	for _, tt := range tests {
		got, err := ParseScorePolicy(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		assert.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestWritePlan(t *testing.T) {
	inv, err := inventory.FromDays(map[inventory.Category][]inventory.NamedDays{
		inventory.Starch:    {{Name: "bread", Days: 5}, {Name: "rice", Days: 2}},
		inventory.Meat:      {{Name: "chicken", Days: 3}},
		inventory.Vegetable: {{Name: "carrot", Days: -1}},
	})
	require.NoError(t, err)

	plan := NewPlanner(nil).Plan(inv, Options{})

	var buf bytes.Buffer
	WriteInventory(&buf, inv.SortedByExpiry())
	WritePlan(&buf, plan, true)
	out := buf.String()

	assert.Contains(t, out, "carrot: expired 1 days ago")
	assert.Contains(t, out, "rice: will expire in 2 days")
	assert.Contains(t, out, "Day 0: Recipe with bread, chicken, carrot (sum=7)")
	assert.Contains(t, out, "based on your preferences")
	assert.Contains(t, out, "Unused due to category imbalance: rice (starch, 2 days)")
}
