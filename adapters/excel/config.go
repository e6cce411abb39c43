package excel

// ReaderConfig holds configuration for reading uploaded tables
type ReaderConfig struct {
	Sheet     string `json:"sheet"`      // XLSX sheet to read, empty means the first sheet
	TrimCells bool   `json:"trim_cells"` // Trim surrounding whitespace from data cells
}

// DefaultReaderConfig returns sensible defaults. Headers are always trimmed;
// data cells are passed through untouched.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		TrimCells: false,
	}
}
