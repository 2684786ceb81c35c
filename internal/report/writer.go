package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/texloop/fabricpulse/internal/insights"
	"github.com/texloop/fabricpulse/internal/monitoring"
)

// WriteTrendsCSV writes a material trend report
func WriteTrendsCSV(w io.Writer, trends []insights.MaterialTrend) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Material", "Demand Score", "Avg Price", "Trend"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, t := range trends {
		row := EscapeCSVRow([]string{
			t.Material,
			strconv.Itoa(t.DemandScore),
			fmt.Sprintf("%.2f", t.AvgPrice),
			t.Trend,
		})
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing trend row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteAlertsCSV writes a seller alert report
func WriteAlertsCSV(w io.Writer, alerts []monitoring.Alert) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Severity", "Type", "Listing", "Message"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, a := range alerts {
		row := EscapeCSVRow([]string{
			a.Severity,
			string(a.Type),
			a.ListingID,
			a.Message,
		})
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing alert row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDeltasCSV writes snapshot comparison results
func WriteDeltasCSV(w io.Writer, deltas []monitoring.MaterialDelta) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Material", "Old Avg", "New Avg", "Change %", "Old Count", "New Count"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, d := range deltas {
		row := EscapeCSVRow([]string{
			d.Material,
			fmt.Sprintf("%.2f", d.OldAvgPrice),
			fmt.Sprintf("%.2f", d.NewAvgPrice),
			fmt.Sprintf("%.1f", d.DeltaPct),
			strconv.Itoa(d.OldCount),
			strconv.Itoa(d.NewCount),
		})
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing delta row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
