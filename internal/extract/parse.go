package extract

import "strings"

// Sentinel is the phrase the ingredient prompt makes the model emit
// between the ingredient list and the order suggestions.
const Sentinel = "Here are suggestions for items you can order from Instacart or Amazon:"

// PartitionIngredients splits raw response lines into the ingredient list
// and the order suggestions that follow the sentinel line. The sentinel
// text itself is stripped from the line carrying it; if nothing remains
// that line is dropped. Without a sentinel everything is an ingredient.
//
// The exact-phrase match is fragile, which is why the policy lives in
// this one function: swapping to structured model output touches nothing
// else.
func PartitionIngredients(lines []string) (ingredients, orderSuggestions []string) {
	for i, line := range lines {
		if !strings.Contains(line, Sentinel) {
			continue
		}
		ingredients = lines[:i]
		if rest := strings.TrimSpace(strings.Replace(line, Sentinel, "", 1)); rest != "" {
			orderSuggestions = append(orderSuggestions, rest)
		}
		orderSuggestions = append(orderSuggestions, lines[i+1:]...)
		return ingredients, orderSuggestions
	}
	return lines, nil
}
