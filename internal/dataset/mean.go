package dataset

import (
	"encoding/json"
	"math"

	"github.com/charmbracelet/log"
)

// Mean averages the numeric values. Every other value is reported once on lg
// and counts neither in the sum nor in the divisor. Without any number the
// result is NaN.
func Mean(values []any, lg *log.Logger) float64 {
	var (
		sum float64
		n   int
	)
	for _, v := range values {
		f, ok := number(v)
		if !ok {
			if lg != nil {
				lg.Error("mean only accepts numeric input", "type", typeOf(v))
			}
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func number(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
