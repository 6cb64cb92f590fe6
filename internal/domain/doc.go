// Package domain models Florida Automated Weather Network (FAWN) report data.
//
// # Data Source
//
// Observations come from FAWN report exports (https://fawn.ifas.ufl.edu/),
// one CSV row per station per reporting period. The dashboard operates on a
// single fixed export loaded once at startup; the service never writes back
// to the file.
//
// # FAWN Report Conventions
//
// Column names:
//
//	"FAWN Station"          station site identifier, e.g. "Alachua"
//	"Period"                observation timestamp, usually "2006-01-02" or
//	                        "2006-01-02 15:04:05"
//	"Season"                categorical label (Winter/Spring/Summer/Fall);
//	                        present only in feature-engineered variants
//	"2m T avg (F)"          mean air temperature at 2 meters, °F
//	"2m Rain tot (in)"      total rainfall, inches, never negative
//	"RelHum avg 2m  (pct)"  mean relative humidity, percent — note the
//	                        double space, faithfully reproduced from the
//	                        report generator
//	"10m Wind avg (mph)"    mean wind speed at 10 meters
//	"10m Wind max (mph)"    gust maximum at 10 meters
//	"Comfort_Index"         derived comfort score 0-100 (optional)
//	"Weather_Severity"      derived severity score (optional)
//
// Missing values:
//
//	Unmeasured numeric cells are blank and parse to NaN. Aggregations skip
//	NaN values the way the original report tooling does.
//
//	Unparseable Period cells coerce to the zero time; the row is retained
//	and only excluded from date-filtered and time-ordered views. A strict
//	loading mode that rejects such files is available via configuration.
//
// # Immutability
//
// A loaded dataset is never mutated. Filtering produces new row slices that
// alias the loaded observations, which is safe because observations are
// treated as read-only after load.
package domain
