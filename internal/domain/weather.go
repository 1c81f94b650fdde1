package domain

// HourPoint is one hour of forecast data.
type HourPoint struct {
	Time         string  `json:"time"` // local ISO time as reported by the API, e.g. 2025-01-15T08:00
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	PrecipPct    float64 `json:"precip_pct"`
}

// Forecast is an hourly forecast for one location.
type Forecast struct {
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Hours     []HourPoint `json:"hours"`
}

// ForecastSummary condenses a forecast into the figures printed in the brief.
type ForecastSummary struct {
	LowC          float64 `json:"low_c"`
	HighC         float64 `json:"high_c"`
	MaxPrecipPct  float64 `json:"max_precip_pct"`
	MaxPrecipTime string  `json:"max_precip_time"`
	Hours         int     `json:"hours"`
}

// Summary returns low/high temperature and the wettest hour.
// The zero value is returned for an empty forecast.
func (f *Forecast) Summary() ForecastSummary {
	if len(f.Hours) == 0 {
		return ForecastSummary{}
	}

	s := ForecastSummary{
		LowC:          f.Hours[0].TemperatureC,
		HighC:         f.Hours[0].TemperatureC,
		MaxPrecipPct:  f.Hours[0].PrecipPct,
		MaxPrecipTime: f.Hours[0].Time,
		Hours:         len(f.Hours),
	}
	for _, h := range f.Hours[1:] {
		s.LowC = min(s.LowC, h.TemperatureC)
		s.HighC = max(s.HighC, h.TemperatureC)
		if h.PrecipPct > s.MaxPrecipPct {
			s.MaxPrecipPct = h.PrecipPct
			s.MaxPrecipTime = h.Time
		}
	}
	return s
}
