// Package loader provides file abstractions for bringing household
// records into the analyzer from different on-disk formats.
package loader

import (
	"context"
)

type SourceFileType string

const (
	SourceFileTypeCSV   SourceFileType = "csv"
	SourceFileTypeExcel SourceFileType = "excel"
	SourceFileTypeText  SourceFileType = "text"
)

// SourceFile represents one uploaded or on-disk record table. The actual
// content is retrieved via the associated SourceFileLoader; inline text
// sources carry their content directly.
type SourceFile struct {
	ID       string
	FilePath string
	FileType SourceFileType
	// Sheet selects a worksheet by name for Excel workbooks. Empty means
	// the first sheet.
	Sheet   string
	Content string
	Loader  SourceFileLoader
}

// NewSourceFileParams defines the input parameters for creating a new
// SourceFile instance.
type NewSourceFileParams struct {
	ID       string
	FilePath string
	Sheet    string
	Loader   SourceFileLoader
}

// NewCSVSourceFile creates a SourceFile of type SourceFileTypeCSV.
func NewCSVSourceFile(params NewSourceFileParams) SourceFile {
	return SourceFile{
		ID:       params.ID,
		FilePath: params.FilePath,
		FileType: SourceFileTypeCSV,
		Loader:   params.Loader,
	}
}

// NewExcelSourceFile creates a SourceFile of type SourceFileTypeExcel.
func NewExcelSourceFile(params NewSourceFileParams) SourceFile {
	return SourceFile{
		ID:       params.ID,
		FilePath: params.FilePath,
		FileType: SourceFileTypeExcel,
		Sheet:    params.Sheet,
		Loader:   params.Loader,
	}
}

// NewTextSourceFile creates a SourceFile carrying inline content, for
// records pasted directly rather than uploaded as a file.
func NewTextSourceFile(id string, content string) SourceFile {
	return SourceFile{
		ID:       id,
		FileType: SourceFileTypeText,
		Content:  content,
	}
}

// GetText retrieves the raw text content of the file using its Loader.
func (f *SourceFile) GetText(ctx context.Context) ([]byte, error) {
	if f.FileType == SourceFileTypeText {
		return []byte(f.Content), nil
	}
	return f.Loader.GetFileText(ctx, *f)
}

// CacheKey derives the cache identity of a file across loaders.
func CacheKey(file SourceFile) string {
	return file.ID + ":" + file.FilePath
}

// SourceFileLoader defines the interface for loading the contents of a
// SourceFile. Implementations may read from disk or decode container
// formats on top of another loader.
type SourceFileLoader interface {
	GetFileText(ctx context.Context, file SourceFile) ([]byte, error)
}
