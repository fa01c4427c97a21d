// Package sheet reads route tables from spreadsheet files and writes the
// normalized agenda back out.
package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

// Load errors. Every reader failure wraps ErrSourceLoad.
var (
	ErrSourceLoad        = errors.New("cannot load route table")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrEmptyTable        = errors.New("table has no header row")
)

// LoadOptions configures table loading.
type LoadOptions struct {
	// Sheet forces a worksheet by name. Empty selects the data sheet.
	Sheet string
}

// Load reads the table at path. The format is chosen by extension.
func Load(path string, opts LoadOptions) (*schedule.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceLoad, err)
	}
	defer func() { _ = f.Close() }()
	return Read(f, filepath.Base(path), opts)
}

// Read reads a table from r. name is used only to choose the format.
func Read(r io.Reader, name string, opts LoadOptions) (*schedule.Table, error) {
	var (
		t   *schedule.Table
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		t, err = readXLSX(r, opts)
	case ".csv", ".txt":
		t, err = readCSV(r)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceLoad, err)
	}
	return t, nil
}

func readXLSX(r io.Reader, opts LoadOptions) (*schedule.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	name := opts.Sheet
	if name == "" {
		name = SelectDataSheet(sheets, func(sheet string) []string {
			rows, err := f.GetRows(sheet)
			if err != nil || len(rows) == 0 {
				return nil
			}
			return rows[0]
		})
	} else if !contains(sheets, name) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	if name == "" {
		return nil, ErrEmptyTable
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", name, err)
	}
	return buildTable(rows)
}

// SelectDataSheet returns the first sheet whose header has a column
// starting with ORDEM or HORARIO, else the first sheet.
func SelectDataSheet(sheets []string, header func(sheet string) []string) string {
	for _, sh := range sheets {
		for _, c := range header(sh) {
			c = schedule.NormalizeColumn(c)
			if strings.HasPrefix(c, schedule.OrderPrefix) || strings.HasPrefix(c, schedule.TimePrefix) {
				return sh
			}
		}
	}
	if len(sheets) == 0 {
		return ""
	}
	return sheets[0]
}

func readCSV(r io.Reader) (*schedule.Table, error) {
	br := bufio.NewReader(r)
	data, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return buildTable(records)
}

// sniffDelimiter picks ';' over ',' when the header has more of it.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func buildTable(records [][]string) (*schedule.Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = schedule.NormalizeColumn(h)
	}

	rows := make([]schedule.Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		cells := make(map[string]schedule.Value, len(header))
		for j, col := range header {
			if col == "" || j >= len(rec) {
				continue
			}
			if _, dup := cells[col]; dup {
				continue
			}
			cells[col] = cellValue(rec[j])
		}
		rows = append(rows, schedule.NewRow(i, cells))
	}
	return schedule.NewTable(header, rows), nil
}

// cellValue types a raw cell: blank is null, a plain number is numeric
// with its text kept, anything else stays text for the time parser.
func cellValue(raw string) schedule.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return schedule.Null()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return schedule.NumberText(f, s)
	}
	return schedule.Text(s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
