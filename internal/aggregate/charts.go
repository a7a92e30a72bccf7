package aggregate

import (
	"github.com/stwalsh4118/evpulse/internal/models"
)

// Chart types understood by the rendering layer.
const (
	ChartBar  = "bar"
	ChartPie  = "pie"
	ChartLine = "line"
	ChartArea = "area"
)

// StateChartLimit caps the state distribution independently of maxItems.
const StateChartLimit = 10

// ChartSeries is one named chart with its data points.
type ChartSeries struct {
	Key   string       `json:"key"`
	Title string       `json:"title"`
	Type  string       `json:"type"`
	Data  []ChartPoint `json:"data"`
}

// BuildCharts derives the dashboard chart series from a filtered collection.
// When the spec selects exactly one make, the first chart drills down into
// that make's models.
func BuildCharts(vehicles []models.Vehicle, spec models.FilterSpec, maxItems int) []ChartSeries {
	first := ChartSeries{
		Key:   "makes",
		Title: "Top Makes",
		Type:  ChartBar,
		Data:  ByField(vehicles, models.DimensionMake, maxItems),
	}
	if len(spec.Makes) == 1 {
		first = ChartSeries{
			Key:   "models",
			Title: spec.Makes[0] + " Models",
			Type:  ChartPie,
			Data:  ByField(vehicles, models.DimensionModel, maxItems),
		}
	}

	return []ChartSeries{
		first,
		{
			Key:   "evTypes",
			Title: "EV Type Distribution",
			Type:  ChartPie,
			Data:  ByField(vehicles, models.DimensionEVType, 0),
		},
		{
			Key:   "years",
			Title: "Vehicles by Year",
			Type:  ChartLine,
			Data:  ByField(vehicles, models.DimensionModelYear, 0),
		},
		{
			Key:   "counties",
			Title: "Top Counties",
			Type:  ChartBar,
			Data:  ByField(vehicles, models.DimensionCounty, maxItems),
		},
		{
			Key:   "states",
			Title: "State Distribution",
			Type:  ChartBar,
			Data:  ByField(vehicles, models.DimensionState, StateChartLimit),
		},
		{
			Key:   "cities",
			Title: "Top Cities",
			Type:  ChartArea,
			Data:  ByField(vehicles, models.DimensionCity, maxItems),
		},
	}
}
