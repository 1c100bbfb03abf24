package recipe

// ApplyPreferences 將排好的菜單穩定地分成兩段：含任一偏好食材者與其餘者。
// 比對為區分大小寫的完整名稱比對；兩段都保持原本的相對順序。
func ApplyPreferences(plan []ScoredRecipe, favorites []string) (matched, rest []ScoredRecipe) {
	fav := make(map[string]struct{}, len(favorites))
	for _, name := range favorites {
		if name != "" {
			fav[name] = struct{}{}
		}
	}

	for _, sr := range plan {
		if containsAny(sr.Recipe, fav) {
			matched = append(matched, sr)
		} else {
			rest = append(rest, sr)
		}
	}
	return matched, rest
}

// PreferredOrder 偏好優先的最終菜單，重新標上 Day 編號，不修改輸入
func PreferredOrder(plan []ScoredRecipe, favorites []string) []ScoredRecipe {
	matched, rest := ApplyPreferences(plan, favorites)
	out := make([]ScoredRecipe, 0, len(plan))
	out = append(out, matched...)
	out = append(out, rest...)
	return relabel(out)
}

func containsAny(r Recipe, fav map[string]struct{}) bool {
	for _, item := range r.Items {
		if _, ok := fav[item.Name]; ok {
			return true
		}
	}
	return false
}
