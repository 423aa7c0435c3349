package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/RyanBlaney/sonido-speaker/speaker"
)

const (
	summarySheet = "Summary"
	tracesSheet  = "Traces"
)

var traceHeaders = []any{"t [s]", "U [V]", "I [A]", "Bc [T]", "F [N]", "d [mm]"}

// WriteWorkbook writes an xlsx file with a summary sheet and one row per sample
func WriteWorkbook(w io.Writer, r *speaker.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := writeSummary(f, r); err != nil {
		return err
	}

	if _, err := f.NewSheet(tracesSheet); err != nil {
		return fmt.Errorf("failed to create traces sheet: %w", err)
	}
	if err := writeTraces(f, r); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, r *speaker.Result) error {
	s := r.Summarize()

	rows := [][]any{
		{"Quantity", "Value", "Unit"},
		{"Voltage amplitude", r.Parameters.VoltageAmplitude, "V"},
		{"Frequency", r.Parameters.Frequency, "Hz"},
		{"Peak current", r.Peaks.Current, "A"},
		{"Peak force", r.Peaks.Force, "N"},
		{"Peak displacement", r.Peaks.Displacement, "mm"},
		{"Peak magnetic field", r.Peaks.MagneticField, "T"},
		{"RMS voltage", s.RMSVoltage, "V"},
		{"RMS current", s.RMSCurrent, "A"},
		{"Average power", s.AveragePower, "W"},
		{"Samples", r.Time.Len(), ""},
		{"Sample rate", r.Time.SampleRate(), "Hz"},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}

	// formatted readouts next to the raw values
	for i, m := range FormatMetrics(r.Peaks) {
		cell, err := excelize.CoordinatesToCellName(5, i+1)
		if err != nil {
			return err
		}
		row := []any{m.Label, m.Value}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write metric row %d: %w", i+1, err)
		}
	}

	return nil
}

func writeTraces(f *excelize.File, r *speaker.Result) error {
	sw, err := f.NewStreamWriter(tracesSheet)
	if err != nil {
		return fmt.Errorf("failed to open traces stream: %w", err)
	}

	if err := sw.SetRow("A1", traceHeaders); err != nil {
		return fmt.Errorf("failed to write traces header: %w", err)
	}

	tr := r.Traces
	for i := 0; i < r.Time.Len(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.Time.At(i), tr.Voltage[i], tr.Current[i], tr.MagneticField[i], tr.Force[i], tr.Displacement[i]}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write trace row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush traces: %w", err)
	}
	return nil
}
