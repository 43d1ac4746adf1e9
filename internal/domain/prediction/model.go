package prediction

import "github.com/yanqian/solarcook/internal/domain/regressor"

// TemperatureRecord is one predicted row of the water/box temperature models.
type TemperatureRecord struct {
	WaterTemp float64 `json:"water_temp"`
	BoxTemp   float64 `json:"box_temp"`
}

// DurationRecord pairs a caller supplied label with a predicted cooking time.
type DurationRecord struct {
	Time        string  `json:"time"`
	CookingTime float64 `json:"cooking_time"`
}

// Recipe selects one of the cooking-duration models.
type Recipe string

const (
	RecipeRiceRoom   Recipe = "rice_room"
	RecipeSambarRoom Recipe = "sambar_room"
	RecipeRicePeak   Recipe = "rice_peak"
	RecipeSambarPeak Recipe = "sambar_peak"
)

var recipeTasks = map[Recipe]regressor.Task{
	RecipeRiceRoom:   regressor.TaskRiceRoom,
	RecipeSambarRoom: regressor.TaskSambarRoom,
	RecipeRicePeak:   regressor.TaskRicePeak,
	RecipeSambarPeak: regressor.TaskSambarPeak,
}

// Recipes returns every recipe in route order.
func Recipes() []Recipe {
	return []Recipe{RecipeRiceRoom, RecipeSambarRoom, RecipeRicePeak, RecipeSambarPeak}
}

// DurationRequest carries the three positional lists of a cooking-time query.
type DurationRequest struct {
	Labels     []string
	WaterTemps []float64
	BoxTemps   []float64
}
