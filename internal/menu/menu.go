// Package menu содержит фильтрацию меню для витрины.
package menu

import (
	"strings"

	"github.com/mmeshcher/puffingood/internal/model"
)

// AllCategories обозначает отсутствие фильтра по категории.
const AllCategories = "all"

// Filter возвращает доступные блюда, у которых название или описание содержит query
// (без учёта регистра) и категория совпадает с category. Пустая категория или "all"
// не ограничивает выборку.
func Filter(foods []model.Food, query, category string) []model.Food {
	q := strings.ToLower(strings.TrimSpace(query))
	res := make([]model.Food, 0, len(foods))

	for _, f := range foods {
		if !f.IsAvailable {
			continue
		}
		if category != "" && category != AllCategories && f.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(f.Name), q) &&
			!strings.Contains(strings.ToLower(f.Description), q) {
			continue
		}
		res = append(res, f)
	}

	return res
}

// Categories возвращает "all" и различные категории в порядке первого появления.
func Categories(foods []model.Food) []string {
	seen := make(map[string]struct{}, len(foods))
	res := []string{AllCategories}

	for _, f := range foods {
		if f.Category == "" {
			continue
		}
		if _, ok := seen[f.Category]; ok {
			continue
		}
		seen[f.Category] = struct{}{}
		res = append(res, f.Category)
	}

	return res
}
