package recipe

import (
	"fmt"
	"sort"
	"strings"
)

// ScorePolicy 急迫分數的計算方式，分數越低越急
type ScorePolicy string

const (
	// SumPolicy 三項食材剩餘天數總和
	SumPolicy ScorePolicy = "sum"
	// MinPolicy 三項食材中最少的剩餘天數
	MinPolicy ScorePolicy = "min"
)

// ParseScorePolicy 解析 "sum" / "min"，空字串為 sum
func ParseScorePolicy(raw string) (ScorePolicy, error) {
	switch ScorePolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SumPolicy:
		return SumPolicy, nil
	case MinPolicy, "minimum":
		return MinPolicy, nil
	}
	return "", fmt.Errorf("unknown score policy %q", raw)
}

// Score 依政策計算一道菜的分數
func (p ScorePolicy) Score(r Recipe) int {
	if len(r.Items) == 0 {
		return 0
	}
	switch p {
	case MinPolicy:
		lowest := r.Items[0].RemainingDays
		for _, item := range r.Items[1:] {
			if item.RemainingDays < lowest {
				lowest = item.RemainingDays
			}
		}
		return lowest
	default:
		total := 0
		for _, item := range r.Items {
			total += item.RemainingDays
		}
		return total
	}
}

// Rank 依分數遞增穩定排序，同分保持著色順序，並標上 Day 0, Day 1, …
func Rank(recipes []Recipe, policy ScorePolicy) []ScoredRecipe {
	out := make([]ScoredRecipe, len(recipes))
	for i, r := range recipes {
		out[i] = ScoredRecipe{Label: r.Label(), Score: policy.Score(r), Recipe: r}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score < out[j].Score
	})
	return relabel(out)
}

// relabel 依目前位置重新編號
func relabel(plan []ScoredRecipe) []ScoredRecipe {
	for i := range plan {
		plan[i].Day = i
	}
	return plan
}
