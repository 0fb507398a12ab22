package order

import (
	"reflect"
	"testing"
	"time"
)

func TestComputeStats(t *testing.T) {
	at := func(day, hour int) time.Time { return time.Date(2024, 5, day, hour, 15, 0, 0, time.UTC) }
	paella := Nutrition{Calories: 600, Proteins: 20, Fats: 15, Carbs: 80}
	sopa := Nutrition{Calories: 200, Proteins: 8, Fats: 4, Carbs: 30}

	orders := []Order{
		{DishName: "Paella", Nutrition: paella, Datetime: at(10, 12), Quantity: 2, Delivered: true},
		{DishName: "Sopa", Nutrition: sopa, Datetime: at(10, 13), Quantity: 1},
		{DishName: "Paella", Nutrition: paella, Datetime: at(11, 12), Quantity: 1},
		{DishName: "Tacos", Datetime: at(12, 19), Quantity: 1},
	}

	t.Run("all", func(t *testing.T) {
		st := ComputeStats(orders, StatsFilter{})
		if st.Total != 4 || st.Delivered != 1 || st.Pending != 3 || st.TotalQuantity != 5 {
			t.Errorf("counts = %+v", st)
		}
		wantMacros := Nutrition{Calories: 2000, Proteins: 68, Fats: 49, Carbs: 270}
		if st.Macros != wantMacros {
			t.Errorf("Macros = %+v; want %+v", st.Macros, wantMacros)
		}
		wantDays := []DayCount{{"2024-05-10", 2}, {"2024-05-11", 1}, {"2024-05-12", 1}}
		if !reflect.DeepEqual(st.ByDay, wantDays) {
			t.Errorf("ByDay = %v; want %v", st.ByDay, wantDays)
		}
		wantWeeks := []PeriodCount{{"2024-W19", 4}}
		if !reflect.DeepEqual(st.ByWeek, wantWeeks) {
			t.Errorf("ByWeek = %v; want %v", st.ByWeek, wantWeeks)
		}
		wantMonths := []PeriodCount{{"2024-05", 4}}
		if !reflect.DeepEqual(st.ByMonth, wantMonths) {
			t.Errorf("ByMonth = %v; want %v", st.ByMonth, wantMonths)
		}
		wantHours := []HourCount{{"12:00", 2}, {"13:00", 1}, {"19:00", 1}}
		if !reflect.DeepEqual(st.ByHour, wantHours) {
			t.Errorf("ByHour = %v; want %v", st.ByHour, wantHours)
		}
		wantTop := []DishCount{{"Paella", 3}, {"Sopa", 1}, {"Tacos", 1}}
		if !reflect.DeepEqual(st.TopDishes, wantTop) {
			t.Errorf("TopDishes = %v; want %v", st.TopDishes, wantTop)
		}
	})

	t.Run("window", func(t *testing.T) {
		st := ComputeStats(orders, StatsFilter{From: at(10, 13), To: at(12, 19)})
		if st.Total != 2 {
			t.Errorf("Total = %d; want 2", st.Total)
		}
	})

	t.Run("weeks and months", func(t *testing.T) {
		dates := []time.Time{
			time.Date(2024, 5, 13, 9, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 2, 9, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 30, 9, 0, 0, 0, time.UTC), // ISO week 1 of 2025
		}
		more := append([]Order(nil), orders...)
		for _, dt := range dates {
			more = append(more, Order{DishName: "Sopa", Datetime: dt, Quantity: 1})
		}
		st := ComputeStats(more, StatsFilter{})

		wantWeeks := []PeriodCount{{"2024-W19", 4}, {"2024-W20", 1}, {"2024-W49", 1}, {"2025-W01", 1}}
		if !reflect.DeepEqual(st.ByWeek, wantWeeks) {
			t.Errorf("ByWeek = %v; want %v", st.ByWeek, wantWeeks)
		}
		wantMonths := []PeriodCount{{"2024-05", 5}, {"2024-12", 2}}
		if !reflect.DeepEqual(st.ByMonth, wantMonths) {
			t.Errorf("ByMonth = %v; want %v", st.ByMonth, wantMonths)
		}
	})

	t.Run("empty", func(t *testing.T) {
		st := ComputeStats(nil, StatsFilter{})
		if st.Total != 0 || st.ByDay == nil || st.ByWeek == nil || st.ByMonth == nil || st.ByHour == nil || st.TopDishes == nil {
			t.Errorf("empty stats = %+v", st)
		}
	})

	t.Run("top dishes are capped", func(t *testing.T) {
		many := make([]Order, 0, 7)
		for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
			many = append(many, Order{DishName: name, Datetime: at(10, 12), Quantity: 1})
		}
		if got := len(ComputeStats(many, StatsFilter{}).TopDishes); got != topDishesLen {
			t.Errorf("len(TopDishes) = %d; want %d", got, topDishesLen)
		}
	})
}
