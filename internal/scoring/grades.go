package scoring

// GradeBand is one row of the grade banding table: any total at or above
// Min earns Grade, first match wins. Bands are a configuration table, not
// hard-coded logic, so thresholds can be tuned without touching the scorer.
type GradeBand struct {
	Min   int    `koanf:"min" json:"min"`
	Grade string `koanf:"grade" json:"grade"`
}

// DefaultGradeBands is the standard monotone banding over the 0-100 total.
var DefaultGradeBands = []GradeBand{
	{Min: 95, Grade: "S"},
	{Min: 85, Grade: "A"},
	{Min: 70, Grade: "B"},
	{Min: 55, Grade: "C"},
	{Min: 40, Grade: "D"},
	{Min: 0, Grade: "F"},
}

// GradeFor returns the letter grade for a total score under the given
// banding table. The table is scanned in order; rows must be sorted by
// descending Min. A total below every row grades as the last row's grade.
func GradeFor(total int, bands []GradeBand) string {
	if len(bands) == 0 {
		bands = DefaultGradeBands
	}
	for _, b := range bands {
		if total >= b.Min {
			return b.Grade
		}
	}
	return bands[len(bands)-1].Grade
}
