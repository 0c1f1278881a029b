// Package dataset loads the marketplace CSV exports into an immutable
// in-memory snapshot and precomputes the joined order-line table every
// downstream engine reads from.
package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const timeLayout = "2006-01-02 15:04:05"

// header maps column names to indexes for positional row access.
type header map[string]int

func (h header) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) getFloat(row []string, col string) (float64, bool) {
	s := h.get(row, col)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (h header) getInt(row []string, col string) (int, bool) {
	// Several numeric columns arrive as floats ("4.0"), so parse wide.
	f, ok := h.getFloat(row, col)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func (h header) getTime(row []string, col string) (time.Time, bool) {
	s := h.get(row, col)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// forEachRow streams a CSV file row by row. The first row is parsed as the
// header and handed to fn alongside every data row.
func forEachRow(ctx context.Context, path string, fn func(h header, row []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headRow, err := reader.Read()
	if err != nil {
		return eris.Wrapf(err, "dataset: read header %s", path)
	}
	h := make(header, len(headRow))
	for i, name := range headRow {
		h[strings.TrimSpace(name)] = i
	}

	for {
		if ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "dataset: context cancelled")
		}
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return eris.Wrapf(err, "dataset: read row %s", path)
		}
		if err := fn(h, row); err != nil {
			return err
		}
	}
}
