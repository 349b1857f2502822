package entity

import (
	"math"
	"time"
)

// DateRange es un rango de fechas inclusivo [Start, End] para reportes y sync.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReportingZone es la zona horaria fija de reportes para un desfase en horas
// respecto a UTC (p. ej. -5 para Colombia). Los límites de rangos y los
// timestamps de pedidos deben vivir en esta misma zona.
func ReportingZone(offsetHours int) *time.Location {
	return time.FixedZone("reporte", offsetHours*3600)
}

// Contains indica si t cae dentro del rango (inclusivo en ambos extremos).
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Days devuelve ceil((End−Start) / 1 día), con piso en 1: un rango de 10 días
// cuenta 10; un rango dentro del mismo día cuenta 1.
func (r DateRange) Days() int {
	d := int(math.Ceil(r.End.Sub(r.Start).Hours() / 24))
	if d < 1 {
		return 1
	}
	return d
}

// SplitDays divide el rango en ventanas consecutivas de hasta days días,
// en orden cronológico. Lo usa la estrategia de fetch por ventanas.
func (r DateRange) SplitDays(days int) []DateRange {
	if days <= 0 {
		days = 1
	}
	var out []DateRange
	step := time.Duration(days) * 24 * time.Hour
	for start := r.Start; start.Before(r.End); start = start.Add(step) {
		end := start.Add(step)
		if end.After(r.End) {
			end = r.End
		}
		out = append(out, DateRange{Start: start, End: end})
	}
	if out == nil {
		out = []DateRange{r}
	}
	return out
}
