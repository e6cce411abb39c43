package excel

import (
	"path/filepath"
	"strings"
)

// FileType is the format of an uploaded table
type FileType string

const (
	FileTypeCSV     FileType = "csv"
	FileTypeXLSX    FileType = "xlsx"
	FileTypeUnknown FileType = ""
)

// DetectFileType picks the format from the filename extension
func DetectFileType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FileTypeCSV
	case ".xlsx":
		return FileTypeXLSX
	default:
		return FileTypeUnknown
	}
}
