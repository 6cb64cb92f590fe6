package dataset

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/fawnlabs/weather-dashboard/internal/domain"
)

// Export writes header plus the original cells of each row as CSV. Because
// rows carry their source cells verbatim, exporting a filtered view and
// reloading it reproduces the same values, including columns the dashboard
// does not model.
func Export(w io.Writer, header []string, rows []domain.Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range rows {
		if err := cw.Write(rows[i].Cells); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename names a download with the current date, e.g.
// "fawn_filtered_20260827.csv".
func ExportFilename(prefix string) string {
	return fmt.Sprintf("%s_%s.csv", prefix, domain.Today().Format("20060102"))
}
