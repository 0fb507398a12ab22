package order

import (
	"fmt"
	"sort"
	"time"
)

type (
	// StatsFilter limits Stats to orders whose Datetime is in [From, To). Zero values are open bounds.
	StatsFilter struct {
		From time.Time
		To   time.Time
	}

	DayCount struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	}

	// PeriodCount counts orders per ISO week ("2024-W19") or month ("2024-05").
	PeriodCount struct {
		Period string `json:"period"`
		Count  int    `json:"count"`
	}

	HourCount struct {
		Hour  string `json:"hour"`
		Count int    `json:"count"`
	}

	DishCount struct {
		Dish     string `json:"dish"`
		Quantity int    `json:"quantity"`
	}

	Stats struct {
		Total         int           `json:"total"`
		Pending       int           `json:"pending"`
		Delivered     int           `json:"delivered"`
		TotalQuantity int           `json:"total_quantity"`
		Macros        Nutrition     `json:"macros"`
		ByDay         []DayCount    `json:"by_day"`
		ByWeek        []PeriodCount `json:"by_week"`
		ByMonth       []PeriodCount `json:"by_month"`
		ByHour        []HourCount   `json:"by_hour"`
		TopDishes     []DishCount   `json:"top_dishes"`
	}
)

func (f StatsFilter) match(o Order) bool {
	if !f.From.IsZero() && o.Datetime.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !o.Datetime.Before(f.To) {
		return false
	}
	return true
}

const topDishesLen = 5

func isoWeek(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

func periodCounts(m map[string]int) []PeriodCount {
	counts := make([]PeriodCount, 0, len(m))
	for p, c := range m {
		counts = append(counts, PeriodCount{Period: p, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Period < counts[j].Period })
	return counts
}

// ComputeStats aggregates orders for the admin dashboard.
// Macros are summed per unit ordered; days, weeks, months and hours are taken from Datetime (UTC).
func ComputeStats(orders []Order, filter StatsFilter) Stats {
	st := Stats{
		ByDay:     make([]DayCount, 0),
		ByHour:    make([]HourCount, 0),
		TopDishes: make([]DishCount, 0),
	}
	days := make(map[string]int)
	weeks := make(map[string]int)
	months := make(map[string]int)
	hours := make(map[int]int)
	dishes := make(map[string]int)

	for _, o := range orders {
		if !filter.match(o) {
			continue
		}
		st.Total++
		if o.Delivered {
			st.Delivered++
		} else {
			st.Pending++
		}
		st.TotalQuantity += o.Quantity
		st.Macros = st.Macros.add(o.Nutrition.times(o.Quantity))
		days[o.Datetime.Format("2006-01-02")]++
		weeks[isoWeek(o.Datetime)]++
		months[o.Datetime.Format("2006-01")]++
		hours[o.Datetime.Hour()]++
		dishes[o.DishName] += o.Quantity
	}

	for d, c := range days {
		st.ByDay = append(st.ByDay, DayCount{Date: d, Count: c})
	}
	sort.Slice(st.ByDay, func(i, j int) bool { return st.ByDay[i].Date < st.ByDay[j].Date })
	st.ByWeek = periodCounts(weeks)
	st.ByMonth = periodCounts(months)

	hrs := make([]int, 0, len(hours))
	for h := range hours {
		hrs = append(hrs, h)
	}
	sort.Ints(hrs)
	for _, h := range hrs {
		st.ByHour = append(st.ByHour, HourCount{Hour: time.Date(0, 1, 1, h, 0, 0, 0, time.UTC).Format("15:04"), Count: hours[h]})
	}

	for d, q := range dishes {
		st.TopDishes = append(st.TopDishes, DishCount{Dish: d, Quantity: q})
	}
	sort.Slice(st.TopDishes, func(i, j int) bool {
		if st.TopDishes[i].Quantity != st.TopDishes[j].Quantity {
			return st.TopDishes[i].Quantity > st.TopDishes[j].Quantity
		}
		return st.TopDishes[i].Dish < st.TopDishes[j].Dish
	})
	if len(st.TopDishes) > topDishesLen {
		st.TopDishes = st.TopDishes[:topDishesLen]
	}
	return st
}
