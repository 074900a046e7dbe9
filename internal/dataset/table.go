package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	columnArtist   = "artist"
	columnHost     = "host"
	columnDateTime = "datetime"
)

// columns maps the required columns to their position in a header row.
type columns struct {
	artist, host, dateTime int
}

func findColumns(header []string) (columns, error) {
	c := columns{artist: -1, host: -1, dateTime: -1}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch name {
		case columnArtist:
			c.artist = i
		case columnHost:
			c.host = i
		case columnDateTime:
			c.dateTime = i
		}
	}

	var missing []string
	if c.artist < 0 {
		missing = append(missing, "Artist")
	}
	if c.host < 0 {
		missing = append(missing, "Host")
	}
	if c.dateTime < 0 {
		missing = append(missing, "DateTime")
	}
	if len(missing) > 0 {
		return c, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return c, nil
}

func (c columns) play(record []string) Play {
	return NewPlay(field(record, c.artist), field(record, c.host), field(record, c.dateTime))
}

// Short rows are padded with empty values rather than rejected.
func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

// ReadCSV reads a delimited playlist export. The first record is the header.
func ReadCSV(r io.Reader, comma rune) ([]Play, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols, err := findColumns(header)
	if err != nil {
		return nil, err
	}

	var plays []Play
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(plays)+2, err)
		}
		plays = append(plays, cols.play(record))
	}

	if len(plays) == 0 {
		return nil, ErrEmptyDataset
	}
	return plays, nil
}

// ReadXLSX reads the named sheet (or the first one) of a workbook.
func ReadXLSX(path string, sheet string) ([]Play, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrEmptyDataset
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols, err := findColumns(header)
	if err != nil {
		return nil, err
	}

	var plays []Play
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(plays)+2, err)
		}
		if len(record) == 0 {
			continue
		}
		plays = append(plays, cols.play(record))
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	if len(plays) == 0 {
		return nil, ErrEmptyDataset
	}
	return plays, nil
}
