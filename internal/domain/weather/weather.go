package weather

import (
	"fmt"
	"math"
)

// Weather is the current conditions at a coordinate.
type Weather struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	TemperatureF  float64 `json:"temperature_f"`
	TemperatureC  float64 `json:"temperature_c"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection int     `json:"winddirection"`
}

// FormattedTemperature renders e.g. "85°F".
func (w Weather) FormattedTemperature() string {
	return fmt.Sprintf("%d°F", int(math.Round(w.TemperatureF)))
}

// FormattedWind renders e.g. "NE 5 mph".
func (w Weather) FormattedWind() string {
	return fmt.Sprintf("%s %d mph", Cardinal(w.WindDirection), int(math.Round(w.WindSpeed)))
}

var cardinals = []struct {
	lo, hi float64
	name   string
}{
	{0, 22.5, "N"},
	{22.5, 67.5, "NE"},
	{67.5, 112.5, "E"},
	{112.5, 157.5, "SE"},
	{157.5, 202.5, "S"},
	{202.5, 247.5, "SW"},
	{247.5, 292.5, "W"},
	{292.5, 337.5, "NW"},
	{337.5, 360, "N"},
}

// Cardinal maps a bearing in degrees to an 8-point compass name.
// Bearings outside [0, 360) map to "N".
func Cardinal(degrees int) string {
	d := float64(degrees)
	for _, c := range cardinals {
		if d >= c.lo && d < c.hi {
			return c.name
		}
	}
	return "N"
}
