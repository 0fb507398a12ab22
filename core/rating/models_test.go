package rating

import (
	"math"
	"testing"
	"time"
)

func TestFold(t *testing.T) {
	now := time.Now().UTC()
	agg := Empty("Paella")
	if agg.Avg.Valid || agg.Count != 0 {
		t.Fatalf("Empty() = %+v", agg)
	}

	steps := []struct {
		rating    float64
		wantAvg   float64
		wantCount int
	}{
		{rating: 4, wantAvg: 4, wantCount: 1},
		{rating: 2, wantAvg: 3, wantCount: 2},
		{rating: 3, wantAvg: 3, wantCount: 3},
		{rating: 5, wantAvg: 3.5, wantCount: 4},
		{rating: 1, wantAvg: 3, wantCount: 5},
	}
	for i, s := range steps {
		agg = Fold(agg, s.rating, now.Add(time.Duration(i)*time.Second))
		if math.Abs(agg.Avg.Float64-s.wantAvg) > 1e-9 || agg.Count != s.wantCount {
			t.Errorf("step %d: Fold() = {%v, %d}; want {%v, %d}", i, agg.Avg.Float64, agg.Count, s.wantAvg, s.wantCount)
		}
		if !agg.UpdatedAt.Valid || !agg.UpdatedAt.Time.Equal(now.Add(time.Duration(i)*time.Second)) {
			t.Errorf("step %d: UpdatedAt = %v", i, agg.UpdatedAt)
		}
	}
}
