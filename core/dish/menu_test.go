package dish

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/cafeteria/core"
)

func TestParseMenu(t *testing.T) {
	v := core.NewDefaultValidator()

	tests := []struct {
		name    string
		payload string
		want    []NewDish
		wantErr bool
	}{
		{name: "not json", payload: "<html>", wantErr: true},
		{name: "no dishes", payload: `{"dishes": []}`, wantErr: true},
		{name: "missing dishes", payload: `{"menu": []}`, wantErr: true},
		{name: "dish without name", payload: `{"dishes": [{"items": []}]}`, wantErr: true},
		{
			name:    "item without facts",
			payload: `{"dishes": [{"dish_name": "Paella", "items": [{"name": "Arroz"}]}]}`,
			wantErr: true,
		},
		{
			name:    "negative facts",
			payload: `{"dishes": [{"dish_name": "Paella", "items": [{"name": "Arroz", "energy": -1, "carbs": 0, "protein": 0, "fat": 0}]}]}`,
			wantErr: true,
		},
		{
			name: "ok",
			payload: `{"dishes": [
				{"dish_name": "Paella", "items": [
					{"name": "Arroz", "energy": 600, "carbs": 80, "protein": 20, "fat": 15, "grams": 250},
					{"name": "Mariscos", "energy": 100, "carbs": 0, "protein": 18, "fat": 2}
				]},
				{"dish_name": "Sopa", "items": []}
			]}`,
			want: []NewDish{
				{
					Name:        "Paella",
					Description: "Paella",
					Nutrition:   Nutrition{Calories: 600, Protein: 20, Carbs: 80, Fat: 15},
					Ingredients: []string{"Arroz", "Mariscos"},
				},
				{Name: "Sopa", Description: "Sopa", Ingredients: []string{}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMenu([]byte(tt.payload), v)
			if tt.wantErr {
				if !core.IsValidation(err) {
					t.Errorf("ParseMenu() error = %v; want a validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMenu() failed: %v", err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
