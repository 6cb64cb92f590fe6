package domain

// Field identifies a numeric observation column that charts can address by
// name, matching the query-parameter vocabulary of the HTTP API.
type Field string

const (
	FieldTemperature Field = "temperature"
	FieldRainfall    Field = "rainfall"
	FieldHumidity    Field = "humidity"
	FieldWindAvg     Field = "wind_avg"
	FieldWindMax     Field = "wind_max"
	FieldComfort     Field = "comfort_index"
	FieldSeverity    Field = "weather_severity"
)

// Fields lists every addressable numeric field.
func Fields() []Field {
	return []Field{
		FieldTemperature, FieldRainfall, FieldHumidity,
		FieldWindAvg, FieldWindMax, FieldComfort, FieldSeverity,
	}
}

// Optional reports whether the field maps to a column that only some
// dataset variants carry.
func (f Field) Optional() bool {
	return f == FieldComfort || f == FieldSeverity
}

// Valid reports whether f names a known field.
func (f Field) Valid() bool {
	switch f {
	case FieldTemperature, FieldRainfall, FieldHumidity,
		FieldWindAvg, FieldWindMax, FieldComfort, FieldSeverity:
		return true
	}
	return false
}

// Value extracts the field from an observation. The second return is false
// when the field is an optional column absent from this row's dataset
// variant; NaN values are returned as-is with ok true.
func (f Field) Value(o *Observation) (float64, bool) {
	switch f {
	case FieldTemperature:
		return o.TempAvg, true
	case FieldRainfall:
		return o.RainTotal, true
	case FieldHumidity:
		return o.HumidityAvg, true
	case FieldWindAvg:
		return o.WindAvg, true
	case FieldWindMax:
		return o.WindMax, true
	case FieldComfort:
		if o.ComfortIndex == nil {
			return 0, false
		}
		return *o.ComfortIndex, true
	case FieldSeverity:
		if o.WeatherSeverity == nil {
			return 0, false
		}
		return *o.WeatherSeverity, true
	}
	return 0, false
}
