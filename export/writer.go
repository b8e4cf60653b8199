package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/cyclekit/pipeline"
	"github.com/c360studio/cyclekit/table"
)

// cycleColumn is the leading output column naming each row's survey cycle.
const cycleColumn = "cycle"

// WriteTable renders a harmonized table. Every cell is either a number or
// one of the five NA(x) markers.
func WriteTable(w io.Writer, t *table.Table, format Format) error {
	info, ok := GetFormatInfo(format)
	if !ok {
		return fmt.Errorf("unsupported output format %q", format)
	}

	cw := csv.NewWriter(w)
	cw.Comma = info.Comma

	columns := t.Columns()
	header := append([]string{cycleColumn}, columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(header))
	for i := 0; i < t.Rows(); i++ {
		row[0] = t.CycleOf(i)
		for j, name := range columns {
			cell, _ := t.Cell(name, i)
			row[j+1] = cell.String()
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTableFile writes the table to a file, creating parent directories.
func WriteTableFile(path string, t *table.Table, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	if err := WriteTable(f, t, format); err != nil {
		return err
	}
	return f.Close()
}

// WriteReports renders per-cycle run reports as a YAML document.
func WriteReports(w io.Writer, reports []*pipeline.Report) error {
	doc := struct {
		Reports []*pipeline.Report `yaml:"reports"`
	}{Reports: reports}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal reports: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteReportsFile writes the report document to a file.
func WriteReportsFile(path string, reports []*pipeline.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()
	if err := WriteReports(f, reports); err != nil {
		return err
	}
	return f.Close()
}
