package mock

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/photorad/photoRad/internal/domain"
)

// SyntheticSky simulates a year of sky conditions for development
// Output is deterministic for a given seed
type SyntheticSky struct {
	peak      float64
	variation float64
	rng       *rand.Rand
}

// NewSyntheticSky creates a sky with a clear-day noon value of peak
// peak: noon irradiance (W/m²) or illuminance (lux) of an unshaded point
// variation: +/- fraction of cloud noise (e.g., 0.2 means 80%-120%)
func NewSyntheticSky(peak, variation float64, seed int64) *SyntheticSky {
	return &SyntheticSky{
		peak:      peak,
		variation: variation,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// DayLength returns the hours between sunrise and sunset on day (0..364)
// for a mid-latitude site
func DayLength(day int) float64 {
	return 12 + 3*math.Sin(2*math.Pi*float64(day-80)/domain.DaysPerYear)
}

// solar returns the clear-sky fraction (0..1) at the middle of hour h of day
func solar(day, hour int) float64 {
	length := DayLength(day)
	sunrise := 12 - length/2
	t := float64(hour) + 0.5 - sunrise
	if t <= 0 || t >= length {
		return 0
	}
	return math.Sin(math.Pi * t / length)
}

// HourlyMatrix returns an 8760 x points results matrix. Point p receives
// progressively more shade, from none at point 0 to 80% at the last point.
func (s *SyntheticSky) HourlyMatrix(points int) *mat.Dense {
	m := mat.NewDense(domain.HoursPerYear, points, nil)
	for day := 0; day < domain.DaysPerYear; day++ {
		cloud := 1 + (s.rng.Float64()-0.5)*2*s.variation
		for hour := 0; hour < domain.HoursPerDay; hour++ {
			sky := s.peak * solar(day, hour) * cloud
			for p := 0; p < points; p++ {
				v := sky * shade(p, points)
				// Ensure non-negative
				if v < 0 {
					v = 0
				}
				m.Set(day*domain.HoursPerDay+hour, p, v)
			}
		}
	}
	return m
}

func shade(p, points int) float64 {
	if points < 2 {
		return 1
	}
	return 1 - 0.8*float64(p)/float64(points-1)
}

// Weather returns a site whose diffuse irradiance is nonzero exactly while
// the sun is up
func (s *SyntheticSky) Weather(name string, lon, lat float64) domain.Weather {
	diffuse := make([]float64, domain.HoursPerYear)
	for day := 0; day < domain.DaysPerYear; day++ {
		for hour := 0; hour < domain.HoursPerDay; hour++ {
			if f := solar(day, hour); f > 0 {
				diffuse[day*domain.HoursPerDay+hour] = 0.3 * s.peak * f
			}
		}
	}
	return domain.Weather{Location: name, Longitude: lon, Latitude: lat, Diffuse: diffuse}
}

// WriteResults writes hourly as a results file, one line per hour, with
// metaColumns leading columns of zeros
func WriteResults(path string, hourly mat.Matrix, metaColumns int) error {
	return writeLines(path, func(w *bufio.Writer) error {
		rows, cols := hourly.Dims()
		for r := 0; r < rows; r++ {
			for c := 0; c < metaColumns; c++ {
				w.WriteString("0 ")
			}
			for c := 0; c < cols; c++ {
				if c > 0 {
					w.WriteByte(' ')
				}
				w.WriteString(strconv.FormatFloat(hourly.At(r, c), 'f', 3, 64))
			}
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
		return nil
	})
}

// WritePoints writes a grid points file of points sensors one metre apart
func WritePoints(path string, points int) error {
	return writeLines(path, func(w *bufio.Writer) error {
		for p := 0; p < points; p++ {
			if _, err := fmt.Fprintf(w, "%d 0 0.75 0 0 1\n", p); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteWeather writes weather as a minimal EnergyPlus weather file
func WriteWeather(path string, weather domain.Weather) error {
	return writeLines(path, func(w *bufio.Writer) error {
		fmt.Fprintf(w, "LOCATION,%s,Synthetic,Synthetic,TMY3,000000,%.3f,%.3f,-5.0,100.0\n",
			weather.Location, weather.Latitude, weather.Longitude)
		w.WriteString("DATA PERIODS,1,1,Data,Sunday, 1/ 1,12/31\n")
		for i, v := range weather.Diffuse {
			day, hour := i/domain.HoursPerDay, i%domain.HoursPerDay
			month, dom := dayToDate(day)
			if _, err := fmt.Fprintf(w, "2011,%d,%d,%d,60,?9?9,10,5,70,101300,0,0,300,0,0,%s,0,0,0,0,0,0\n",
				month, dom, hour+1, strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Scenario holds the paths of one generated model and site
type Scenario struct {
	ResultsPath string
	PointsPath  string
	WeatherPath string
}

// WriteScenario writes a results file with the default three metadata
// columns, its points file and a weather file for site into dir
func (s *SyntheticSky) WriteScenario(dir string, points int, site string, lon, lat float64) (Scenario, error) {
	sc := Scenario{
		ResultsPath: filepath.Join(dir, "grid.ill"),
		PointsPath:  filepath.Join(dir, "grid.pts"),
		WeatherPath: filepath.Join(dir, site+".epw"),
	}
	if err := WriteResults(sc.ResultsPath, s.HourlyMatrix(points), 3); err != nil {
		return Scenario{}, err
	}
	if err := WritePoints(sc.PointsPath, points); err != nil {
		return Scenario{}, err
	}
	if err := WriteWeather(sc.WeatherPath, s.Weather(site, lon, lat)); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

func dayToDate(day int) (month, dom int) {
	for m := 1; m <= 12; m++ {
		start, end, _ := domain.MonthBounds(m)
		if day < end {
			return m, day - start + 1
		}
	}
	return 12, 31
}

func writeLines(path string, fn func(w *bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
