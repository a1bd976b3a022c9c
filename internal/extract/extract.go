// Package extract parses an uploaded tabular file (CSV or XLSX) into a
// company profile. Only the first data row is used.
package extract

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sells-group/matching-cli/internal/model"
)

// Required header names in the uploaded file.
const (
	FieldCompanyName         = "company_name"
	FieldIndustry            = "industry"
	FieldBusinessDescription = "business_description"
)

// minFileSize rejects files too small to hold a header and one data row.
const minFileSize = 10

var (
	// ErrFileTooSmall indicates the file cannot contain meaningful data.
	ErrFileTooSmall = errors.New("extract: file too small to contain company data")
	// ErrNoDataRows indicates the file has a header but no data rows.
	ErrNoDataRows = errors.New("extract: no data rows in file")
	// ErrUnsupportedFormat indicates an extension other than .csv or .xlsx.
	ErrUnsupportedFormat = errors.New("extract: unsupported file format")
)

// MissingFieldsError names the required header fields absent from the file.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "extract: missing required fields: " + strings.Join(e.Fields, ", ")
}

// FromFile reads the file at path and extracts a CompanyProfile from its
// first data row. The format is selected by extension.
func FromFile(path string) (model.CompanyProfile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.CompanyProfile{}, eris.Wrap(err, "extract: stat file")
	}
	if info.Size() < minFileSize {
		return model.CompanyProfile{}, ErrFileTooSmall
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return model.CompanyProfile{}, eris.Wrap(err, "extract: open file")
		}
		defer f.Close()
		return FromCSV(f)
	case ".xlsx":
		return fromXLSX(path)
	default:
		return model.CompanyProfile{}, ErrUnsupportedFormat
	}
}

// FromCSV extracts a profile from CSV content. A UTF-8 BOM, if present, is
// stripped so the first header cell matches.
func FromCSV(r io.Reader) (model.CompanyProfile, error) {
	decoder := unicode.UTF8BOM.NewDecoder()
	reader := csv.NewReader(transform.NewReader(r, decoder))
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return model.CompanyProfile{}, ErrNoDataRows
	}
	if err != nil {
		return model.CompanyProfile{}, eris.Wrap(err, "extract: read header")
	}

	row, err := reader.Read()
	if err == io.EOF {
		return model.CompanyProfile{}, ErrNoDataRows
	}
	if err != nil {
		return model.CompanyProfile{}, eris.Wrap(err, "extract: read data row")
	}

	return profileFromRow(header, row)
}

func fromXLSX(path string) (model.CompanyProfile, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return model.CompanyProfile{}, eris.Wrap(err, "extract: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return model.CompanyProfile{}, ErrNoDataRows
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) < 2 {
		return model.CompanyProfile{}, ErrNoDataRows
	}

	header := rowToStrings(sheet.Rows[0])
	row := rowToStrings(sheet.Rows[1])
	return profileFromRow(header, row)
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		cells[i] = c.String()
	}
	return cells
}

// profileFromRow maps the header to the data row and validates that every
// required field is present and non-empty. Missing and empty fields are both
// reported as missing, named individually.
func profileFromRow(header, row []string) (model.CompanyProfile, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	value := func(field string) string {
		i, ok := index[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	profile := model.CompanyProfile{
		Name:        value(FieldCompanyName),
		Industry:    value(FieldIndustry),
		Description: value(FieldBusinessDescription),
	}

	var missing []string
	for _, field := range []string{FieldCompanyName, FieldIndustry, FieldBusinessDescription} {
		if _, ok := index[field]; !ok {
			missing = append(missing, field)
			continue
		}
		if value(field) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return model.CompanyProfile{}, &MissingFieldsError{Fields: missing}
	}

	return profile, nil
}
