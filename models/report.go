package models

// KPIReport holds the four headline tiles of the dashboard.
type KPIReport struct {
	Flights        int     `json:"flights"`
	AvgDistanceKm  float64 `json:"avg_distance_km"`
	TotalCO2Tons   float64 `json:"total_co2_t"`
	AvgDurationMin float64 `json:"avg_duration_min"`
}

// KPITile is one KPI formatted for display.
type KPITile struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// Comparison relates the dataset's emissions to a small town's yearly total.
// Progress is the share as a fraction, clamped to [0, 1].
type Comparison struct {
	ReferenceTons float64 `json:"reference_t_per_year"`
	SharePercent  float64 `json:"share_percent"`
	Progress      float64 `json:"progress"`
	Summary       string  `json:"summary"`
	ShareLabel    string  `json:"share_label"`
}

// MonthCount is one point of the flights-per-month line chart.
type MonthCount struct {
	Month   string `json:"month"`
	Flights int    `json:"flights"`
}

// YearEmissions is one bar of the CO₂-per-year chart.
type YearEmissions struct {
	Year    int     `json:"year"`
	CO2Kg   float64 `json:"co2_kg"`
	CO2Tons float64 `json:"co2_t"`
}

// Arc is one origin→destination route drawn on the map.
type Arc struct {
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Source      [2]float64 `json:"source_position"`
	Target      [2]float64 `json:"target_position"`
	DistanceKm  *float64   `json:"distance_km"`
	CO2Kg       *float64   `json:"co2_kg"`
	DateStr     string     `json:"date_str"`
}

// ViewState is the initial camera of the route map.
type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	Pitch     float64 `json:"pitch"`
}

// RouteMap is everything the front end needs to draw the arc layer.
type RouteMap struct {
	Arcs  []Arc     `json:"arcs"`
	View  ViewState `json:"view_state"`
	Color [4]int    `json:"color"`
}

// YearRange bounds the year filter.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DashboardReport bundles everything rendered on the dashboard page.
type DashboardReport struct {
	Source          DataSource      `json:"source"`
	Notices         []string        `json:"notices"`
	Years           YearRange       `json:"years"`
	SelectedYear    int             `json:"selected_year,omitempty"`
	KPIs            KPIReport       `json:"kpis"`
	Tiles           []KPITile       `json:"tiles"`
	Comparison      Comparison      `json:"comparison"`
	FlightsPerMonth []MonthCount    `json:"flights_per_month"`
	CO2ByYear       []YearEmissions `json:"co2_by_year"`
	Charts          map[string]any  `json:"charts"`
	Map             RouteMap        `json:"map"`
	Preview         []*Flight       `json:"preview"`
}
