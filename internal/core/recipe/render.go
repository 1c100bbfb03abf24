package recipe

import (
	"fmt"
	"io"
	"strings"

	"fridge-planner/internal/core/inventory"
)

// WriteInventory 輸出冰箱清單，每項一行 "<name>: will expire in N days"
func WriteInventory(w io.Writer, items []inventory.FoodItem) {
	fmt.Fprintln(w, "############# Here are the food items in your fridge: ##############")
	fmt.Fprintln(w)
	for _, item := range items {
		if item.Expired() {
			fmt.Fprintf(w, "%s: expired %d days ago\n", item.Name, -item.RemainingDays)
			continue
		}
		fmt.Fprintf(w, "%s: will expire in %d days\n", item.Name, item.RemainingDays)
	}
}

// WriteSchedule 輸出一段菜單，含分數
func WriteSchedule(w io.Writer, title string, plan []ScoredRecipe, policy string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "############# %s ##############\n", title)
	fmt.Fprintln(w)
	if len(plan) == 0 {
		fmt.Fprintln(w, "No complete recipe can be made from this inventory.")
		return
	}
	for _, sr := range plan {
		fmt.Fprintf(w, "%s (%s=%d)\n", sr, policy, sr.Score)
	}
}

// WriteLeftovers 輸出因分類數量不均而用不到的食材
func WriteLeftovers(w io.Writer, leftovers []inventory.FoodItem) {
	if len(leftovers) == 0 {
		return
	}
	names := make([]string, len(leftovers))
	for i, item := range leftovers {
		names[i] = fmt.Sprintf("%s (%s, %d days)", item.Name, item.Category, item.RemainingDays)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Unused due to category imbalance: %s\n", strings.Join(names, ", "))
}

// WritePlan 輸出完整的規劃結果
func WritePlan(w io.Writer, plan *Plan, withPreferences bool) {
	WriteSchedule(w, "Meal recommendation based on expired date", plan.Base, plan.Policy)
	if withPreferences {
		WriteSchedule(w, "Meal recommendation based on your preferences", plan.Preferred, plan.Policy)
	}
	WriteLeftovers(w, plan.Leftovers)
	if plan.Notice != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Note: %s\n", plan.Notice)
	}
}
