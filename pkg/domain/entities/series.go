package entities

// SeriesPoint represents one synthesized demand observation with its confidence band
type SeriesPoint struct {
	Value int     `json:"value"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
}

// Contains reports whether the point's value lies inside its own band
func (p SeriesPoint) Contains() bool {
	return p.Low <= float64(p.Value) && float64(p.Value) <= p.High
}
