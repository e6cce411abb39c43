// Package excel reads uploaded CSV and XLSX tables into raw datasets.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"mlprep/domain/core"
	"mlprep/domain/preprocessing"
	"mlprep/internal"
)

const utf8BOM = "\ufeff"

// DataReader handles reading Excel and CSV uploads
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewDataReader creates a reader. A nil logger discards output.
func NewDataReader(config ReaderConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.Discard()
	}
	return &DataReader{config: config, logger: logger}
}

// Read decodes r according to the extension of filename.
// Rows keep their own length; ragged rows are left for the pipeline to judge.
func (d *DataReader) Read(ctx context.Context, r io.Reader, filename string) (preprocessing.RawDataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileType := DetectFileType(filename)
	start := time.Now()

	var (
		rows [][]string
		err  error
	)
	switch fileType {
	case FileTypeCSV:
		rows, err = d.readCSV(r)
	case FileTypeXLSX:
		rows, err = d.readExcel(r)
	default:
		return nil, fmt.Errorf("%w: %q (expected .csv or .xlsx)", core.ErrUnsupportedInput, filename)
	}
	if err != nil {
		return nil, err
	}

	raw := d.normalize(rows)
	d.logger.Debug("[DataReader] %s file read in %.2fms (%d rows)",
		strings.ToUpper(string(fileType)), float64(time.Since(start).Nanoseconds())/1e6, len(raw))
	return raw, nil
}

// ReadFile opens path and reads it
func (d *DataReader) ReadFile(ctx context.Context, path string) (preprocessing.RawDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return d.Read(ctx, f, path)
}

func (d *DataReader) readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %v", core.ErrUnsupportedInput, err)
	}
	return rows, nil
}

// readExcel reads one sheet. excelize drops trailing empty cells, so rows
// shorter than the header are padded with empty cells.
func (d *DataReader) readExcel(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", core.ErrUnsupportedInput, err)
	}
	defer f.Close()

	sheet := d.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrUnsupportedInput)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", core.ErrUnsupportedInput, sheet, err)
	}
	if len(rows) == 0 {
		return rows, nil
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows, nil
}

// normalize trims header names and drops a leading byte order mark
func (d *DataReader) normalize(rows [][]string) preprocessing.RawDataset {
	if len(rows) == 0 {
		return preprocessing.RawDataset{}
	}

	header := rows[0]
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		header[i] = strings.TrimSpace(name)
	}

	if d.config.TrimCells {
		for _, row := range rows[1:] {
			for j, cell := range row {
				row[j] = strings.TrimSpace(cell)
			}
		}
	}
	return preprocessing.RawDataset(rows)
}
