package ioformat

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/elektrokombinacija/mapf-cbs/internal/result"
)

// csvHeader is the exact column order spec.md §6 fixes for the result CSV.
var csvHeader = []string{
	"map", "agents", "width", "height",
	"nodes_expanded", "nodes_generated", "conflicts", "cost",
	"runtime_sec", "comm_time_sec", "compute_time_sec", "timeout_sec", "status",
}

// Row identifies the instance a result.Run belongs to, for the CSV row's
// leading columns.
type Row struct {
	MapPath    string
	AgentsPath string
	Width      int
	Height     int
	TimeoutSec float64
}

// AppendCSV appends one row for run to path, writing the header first only
// if the file did not already exist (spec.md §6, "append-only; write the
// header once").
func AppendCSV(path string, row Row, run result.Run) error {
	_, statErr := os.Stat(path)
	needsHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("ioformat: open csv %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needsHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("ioformat: write csv header: %w", err)
		}
	}

	record := []string{
		row.MapPath,
		row.AgentsPath,
		strconv.Itoa(row.Width),
		strconv.Itoa(row.Height),
		strconv.Itoa(run.NodesExpanded),
		strconv.Itoa(run.NodesGenerated),
		strconv.Itoa(run.Conflicts),
		strconv.Itoa(run.Cost),
		strconv.FormatFloat(run.RuntimeSec, 'f', 6, 64),
		strconv.FormatFloat(run.CommTimeSec, 'f', 6, 64),
		strconv.FormatFloat(run.ComputeTimeSec, 'f', 6, 64),
		strconv.FormatFloat(row.TimeoutSec, 'f', 3, 64),
		string(run.Status),
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("ioformat: write csv row: %w", err)
	}
	w.Flush()
	return w.Error()
}
