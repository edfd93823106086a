package contracts

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type metricState uint8

const (
	metricAbsent metricState = iota
	metricValid
	metricMalformed
)

// Metric is an optional numeric field of an evidence record.
// The zero value is absent. A field that was supplied but could not be read
// as a number is malformed; it never carries a value.
type Metric struct {
	value float64
	state metricState
}

// M returns a present metric
func M(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{state: metricMalformed}
	}
	return Metric{value: v, state: metricValid}
}

// MalformedMetric returns a metric marked as supplied-but-unreadable
func MalformedMetric() Metric {
	return Metric{state: metricMalformed}
}

// ParseMetric converts a loosely typed provider value.
// nil, "" and "-" are absent; unreadable strings are malformed.
func ParseMetric(raw interface{}) Metric {
	switch v := raw.(type) {
	case nil:
		return Metric{}
	case Metric:
		return v
	case float64:
		return M(v)
	case float32:
		return M(float64(v))
	case int:
		return M(float64(v))
	case int64:
		return M(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return MalformedMetric()
		}
		return M(f)
	case string:
		return parseMetricString(v)
	default:
		return MalformedMetric()
	}
}

var metricReplacer = strings.NewReplacer(",", "", "%", "", "₹", "", "Rs.", "", "Cr.", "", " ", "")

func parseMetricString(s string) Metric {
	s = metricReplacer.Replace(strings.TrimSpace(s))
	if s == "" || s == "-" {
		return Metric{}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return MalformedMetric()
	}
	return M(f)
}

// Valid reports whether the metric holds a number
func (m Metric) Valid() bool { return m.state == metricValid }

// Absent reports whether the metric was not supplied
func (m Metric) Absent() bool { return m.state == metricAbsent }

// Malformed reports whether the metric was supplied but unreadable
func (m Metric) Malformed() bool { return m.state == metricMalformed }

// Float returns the value, or 0 when the metric is not valid
func (m Metric) Float() float64 {
	return m.Or(0)
}

// Or returns the value, or def when the metric is not valid
func (m Metric) Or(def float64) float64 {
	if m.state != metricValid {
		return def
	}
	return m.value
}

// Scale multiplies a valid metric; other states are returned unchanged
func (m Metric) Scale(factor float64) Metric {
	if m.state != metricValid {
		return m
	}
	return M(m.value * factor)
}

// MarshalJSON writes a number, or null for absent and malformed metrics
func (m Metric) MarshalJSON() ([]byte, error) {
	if m.state != metricValid {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

// UnmarshalJSON never fails on content: unreadable values become malformed
func (m *Metric) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		*m = MalformedMetric()
		return nil
	}

	*m = ParseMetric(raw)
	return nil
}
