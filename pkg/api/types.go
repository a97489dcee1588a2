// Package api defines the PhotoRad wire messages shared by the gRPC and
// HTTP transports and the gRPC client.
package api

// Dataset identifies a simulation results file and its grid points file
type Dataset struct {
	ResultsPath string  `json:"results_path" validate:"required"`
	PointsPath  string  `json:"points_path" validate:"required"`
	Quantity    string  `json:"quantity,omitempty" validate:"omitempty,oneof=irradiance illuminance"`
	Factor      float64 `json:"factor,omitempty" validate:"gte=0"`
	// MetaColumns defaults to 3 when omitted
	MetaColumns *int `json:"meta_columns,omitempty" validate:"omitempty,gte=0"`
}

// ComputeDLIRequest asks for the DLI statistics of a dataset
type ComputeDLIRequest struct {
	Dataset    Dataset `json:"dataset"`
	Cumulative bool    `json:"cumulative,omitempty"`
	// Day (1..365) adds the DLI of every point on that day of the year
	Day *int `json:"day,omitempty" validate:"omitempty,min=1,max=365"`
	// Point adds the 365 daily values of that grid point
	Point *int `json:"point,omitempty" validate:"omitempty,gte=0"`
}

// ComputeDLIResponse carries per-point statistics; Monthly[m][p] is month
// m+1 of point p
type ComputeDLIResponse struct {
	Points            int         `json:"points"`
	Days              int         `json:"days"`
	Annual            []float64   `json:"annual"`
	AnnualClass       []string    `json:"annual_class"`
	Monthly           [][]float64 `json:"monthly"`
	AnnualCumulative  []float64   `json:"annual_cumulative,omitempty"`
	MonthlyCumulative [][]float64 `json:"monthly_cumulative,omitempty"`
	DayOfYear         []float64   `json:"day_of_year,omitempty"`
	PointDaily        []float64   `json:"point_daily,omitempty"`
	Summary           string      `json:"summary"`
}

// DescribeLocationRequest names an EnergyPlus weather file
type DescribeLocationRequest struct {
	WeatherPath string `json:"weather_path" validate:"required"`
}

// SoilMatch is the soil dataset record a location was matched to
type SoilMatch struct {
	Key       string  `json:"key"`
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
}

// Location describes a site
type Location struct {
	Name               string    `json:"name"`
	Longitude          float64   `json:"lon"`
	Latitude           float64   `json:"lat"`
	HardinessZone      string    `json:"hardiness_zone"`
	TMin               float64   `json:"t_min"`
	TMax               float64   `json:"t_max"`
	MonthlyPhotoperiod []float64 `json:"monthly_photoperiod"`
	Match              SoilMatch `json:"soil_match"`
	Summary            string    `json:"summary"`
}

// DescribeLocationResponse wraps a Location
type DescribeLocationResponse struct {
	Location Location `json:"location"`
}

// Plant holds one catalog entry in its raw textual form
type Plant struct {
	Name          string   `json:"name" validate:"required"`
	DLI           string   `json:"dli" validate:"required"`
	MinTemp       *float64 `json:"min_temp,omitempty"`
	MaxTemp       *float64 `json:"max_temp,omitempty"`
	HardinessZone string   `json:"hardiness_zone,omitempty"`
	Photoperiod   string   `json:"photoperiod,omitempty"`
	GrowingSeason string   `json:"growing_season,omitempty"`
}

// AnalyzePlantsRequest asks which plants suit a site and grid
type AnalyzePlantsRequest struct {
	Dataset          Dataset `json:"dataset"`
	WeatherPath      string  `json:"weather_path" validate:"required"`
	Plants           []Plant `json:"plants" validate:"required,min=1,dive"`
	FilterBySoilTemp bool    `json:"filter_by_soil_temp,omitempty"`
	Threshold        float64 `json:"threshold,omitempty" validate:"gte=0,lt=1"`
	Cumulative       bool    `json:"cumulative,omitempty"`
}

// Bands are the descriptive means of the sorted grow-season values
type Bands struct {
	Low    float64 `json:"low"`
	Middle float64 `json:"middle"`
	High   float64 `json:"high"`
}

// Fractions of grid points below, within and above a plant's DLI range
type Fractions struct {
	Below  float64 `json:"below"`
	Within float64 `json:"within"`
	Above  float64 `json:"above"`
}

// Selection is the result for one plant
type Selection struct {
	Plant                string    `json:"plant"`
	Compatible           bool      `json:"compatible"`
	Selected             bool      `json:"selected"`
	Labels               []int     `json:"labels"`
	GrowSeasonDLI        []float64 `json:"grow_season_dli"`
	GrowSeasonCumulative []float64 `json:"grow_season_cumulative,omitempty"`
	Bands                Bands     `json:"bands"`
	Fractions            Fractions `json:"fractions"`
	Report               string    `json:"report"`
	LegendTitle          string    `json:"legend_title"`
	ChartTitle           string    `json:"chart_title"`
}

// AnalyzePlantsResponse combines every plant's selection over the grid
type AnalyzePlantsResponse struct {
	AnalysisID     string      `json:"analysis_id"`
	Location       Location    `json:"location"`
	Selections     []Selection `json:"selections"`
	Combinations   []string    `json:"combinations"`
	PointIndex     []int       `json:"point_index"`
	Selection      []string    `json:"selection"`
	SelectionIndex int         `json:"selection_index"`
	Legend         string      `json:"legend"`
}
