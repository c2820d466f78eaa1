// Package directory loads the studio's project directory (project id,
// market, address, sales person, designer) from spreadsheet exports so the
// confirmation step can autofill from it.
package directory

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/vestahome/designer-hub/internal/model"
)

// Options configures how a source file is read.
type Options struct {
	// Sheet selects an xlsx sheet by name. Empty means the first sheet.
	Sheet string
	// Charset decodes csv input, e.g. "windows-1252". Empty means UTF-8.
	Charset string
	// Delimiter overrides the csv field separator.
	Delimiter rune
}

// ReadFile returns every row of an .xlsx or .csv file.
func ReadFile(path string, opts Options) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path, opts.Sheet)
	case ".csv", ".tsv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "directory: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		if opts.Delimiter == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
			opts.Delimiter = '\t'
		}
		return readCSV(f, opts)
	default:
		return nil, eris.Errorf("directory: unsupported file type %q", filepath.Ext(path))
	}
}

func readXLSX(path, sheetName string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "directory: open xlsx")
	}

	var sheet *xlsx.Sheet
	switch {
	case sheetName != "":
		s, ok := f.Sheet[sheetName]
		if !ok {
			return nil, eris.Errorf("directory: sheet %q not found", sheetName)
		}
		sheet = s
	case len(f.Sheets) == 0:
		return nil, eris.New("directory: workbook has no sheets")
	default:
		sheet = f.Sheets[0]
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func readCSV(r io.Reader, opts Options) ([][]string, error) {
	if opts.Charset != "" {
		enc, err := htmlindex.Get(opts.Charset)
		if err != nil {
			return nil, eris.Wrapf(err, "directory: unsupported charset %q", opts.Charset)
		}
		r = enc.NewDecoder().Reader(r)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "directory: read csv")
	}
	return rows, nil
}

// Load reads src, which may be a local path or an http(s) URL, and parses
// its rows into projects.
func Load(ctx context.Context, src string, opts Options) ([]model.Project, error) {
	path := src
	if isURL(src) {
		dir, err := os.MkdirTemp("", "designer-hub-import-*")
		if err != nil {
			return nil, eris.Wrap(err, "directory: temp dir")
		}
		defer os.RemoveAll(dir) //nolint:errcheck

		path, err = Download(ctx, src, dir)
		if err != nil {
			return nil, err
		}
	}

	rows, err := ReadFile(path, opts)
	if err != nil {
		return nil, err
	}
	return ParseProjects(rows)
}
