// Package summary агрегирует историю заказов за скользящее окно.
package summary

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/puffingood/internal/model"
)

// DefaultWindowDays задаёт окно по умолчанию для сводки администратора.
const DefaultWindowDays = 7

// MaxWindowDays ограничивает окно сотней лет. Более широкие окна считаются равными ему.
const MaxWindowDays = 36500

// Summary содержит сводные показатели по заказам, попавшим в окно.
type Summary struct {
	WindowDays        int                       `json:"windowDays"`
	TotalOrders       int                       `json:"totalOrders"`
	TotalRevenue      decimal.Decimal           `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal           `json:"averageOrderValue"`
	StatusCounts      map[model.OrderStatus]int `json:"statusCounts"`
}

// Cutoff возвращает начало окна в windowDays суток до now.
func Cutoff(now time.Time, windowDays int) time.Time {
	if windowDays > MaxWindowDays {
		windowDays = MaxWindowDays
	}
	return now.AddDate(0, 0, -windowDays)
}

// Summarize считает количество, выручку, средний чек и распределение по статусам
// для заказов, созданных не раньше now - windowDays суток. Входные данные не изменяются.
func Summarize(orders []model.Order, windowDays int, now time.Time) Summary {
	cutoff := Cutoff(now, windowDays)

	s := Summary{
		WindowDays:        windowDays,
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		StatusCounts:      make(map[model.OrderStatus]int),
	}

	for _, o := range orders {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		s.TotalOrders++
		s.TotalRevenue = s.TotalRevenue.Add(o.TotalOrZero())
		s.StatusCounts[o.Status]++
	}

	if s.TotalOrders > 0 {
		s.AverageOrderValue = s.TotalRevenue.Div(decimal.NewFromInt(int64(s.TotalOrders)))
	}

	return s
}
