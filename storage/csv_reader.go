package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"laptop-price/models"
)

// indexColumns are pandas index columns written alongside the data; they are dropped on load.
var indexColumns = map[string]struct{}{
	"":           {},
	"Unnamed: 0": {},
}

var (
	errMissingColumn = errors.New("missing expected column")
	errBadValue      = errors.New("not a number")
)

// CSVReader reads the laptop catalog from a CSV file with a header row.
type CSVReader struct {
	path string
}

// NewCSVReader returns a reader for the CSV file at path. The file is
// opened lazily by ReadAll.
func NewCSVReader(path string) *CSVReader {
	return &CSVReader{path: path}
}

// ReadAll parses every row of the file. Any missing expected column or
// unparsable numeric cell fails the whole load with a *models.DataLoadError.
func (c *CSVReader) ReadAll(ctx context.Context) (*models.Dataset, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, &models.DataLoadError{Source: c.path, Err: err}
	}
	defer f.Close()

	return parseCSV(ctx, c.path, f)
}

// Close is a no-op; the file is closed at the end of ReadAll.
func (c *CSVReader) Close() error { return nil }

func parseCSV(ctx context.Context, source string, r io.Reader) (*models.Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, &models.DataLoadError{Source: source, Err: fmt.Errorf("read header: %w", err)}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	columns := make([]string, 0, len(header))
	var brandCols []int
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, skip := indexColumns[name]; skip {
			continue
		}
		index[name] = i
		columns = append(columns, name)
		if strings.HasPrefix(name, models.BrandColumnPrefix) {
			brandCols = append(brandCols, i)
		}
	}

	for _, col := range models.NumericColumns {
		if _, ok := index[col]; !ok {
			return nil, &models.DataLoadError{Source: source, Column: col, Err: errMissingColumn}
		}
	}

	ds := &models.Dataset{Source: source, Columns: columns}
	row := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, &models.DataLoadError{Source: source, Row: row, Err: err}
		}

		laptop, err := parseRow(rec, index, header, brandCols)
		if err != nil {
			var dle *models.DataLoadError
			if errors.As(err, &dle) {
				dle.Source = source
				dle.Row = row
			}
			return nil, err
		}
		ds.Records = append(ds.Records, laptop)
	}

	return ds, nil
}

func parseRow(rec []string, index map[string]int, header []string, brandCols []int) (*models.LaptopRecord, error) {
	num := func(col string) (float64, error) {
		raw := strings.TrimSpace(rec[index[col]])
		v, err := parseNumber(raw)
		if err != nil {
			return 0, &models.DataLoadError{Column: col, Err: fmt.Errorf("%w: %q", errBadValue, raw)}
		}
		return v, nil
	}

	vals := make(map[string]float64, len(models.NumericColumns))
	for _, col := range models.NumericColumns {
		v, err := num(col)
		if err != nil {
			return nil, err
		}
		vals[col] = v
	}

	l := &models.LaptopRecord{
		Inches:       vals[models.ColInches],
		CPUFrequency: vals[models.ColCPU],
		RAM:          vals[models.ColRAM],
		Weight:       vals[models.ColWeight],
		Touchscreen:  int(vals[models.ColTouchscreen]),
		SSD:          vals[models.ColSSD],
		ResWidth:     vals[models.ColResWidth],
		ResHeight:    vals[models.ColResHeight],
		IPSPanel:     int(vals[models.ColIPS]),
		HDD:          vals[models.ColHDD],
		Price:        vals[models.ColPrice],
	}

	for _, i := range brandCols {
		if v, err := parseNumber(strings.TrimSpace(rec[i])); err == nil && v == 1 {
			l.Company = strings.TrimPrefix(strings.TrimSpace(header[i]), models.BrandColumnPrefix)
			break
		}
	}

	return l, nil
}

// parseNumber accepts finite numbers and the boolean spellings pandas writes
// for one-hot columns. NaN and infinities are rejected.
func parseNumber(raw string) (float64, error) {
	switch strings.ToLower(raw) {
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errBadValue
	}
	return v, nil
}
