package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Column names expected in the uploaded CSV header. Matching is
// case-insensitive and ignores surrounding whitespace.
const (
	colDate      = "date"
	colSteps     = "steps"
	colHeartRate = "heart_rate"
	colSleep     = "sleep_hours"
	colWater     = "water_liters"
	colUserID    = "user_id"
)

// Record is one day of health data parsed from an uploaded CSV row.
type Record struct {
	Date      time.Time
	Steps     float64
	HeartRate float64
	Sleep     float64
	Water     float64
}

// Dataset holds the parsed rows of one upload, sorted by date ascending.
type Dataset struct {
	UserID  string
	Records []Record
}

// ParseCSV reads an uploaded health CSV. The first row must be a header
// containing date, steps, heart_rate, sleep_hours, and water_liters columns;
// user_id is optional and, when present, is taken from the first data row.
// Rows are returned sorted by date.
func ParseCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colDate, colSteps, colHeartRate, colSleep, colWater} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("dataset: missing required column %q", required)
		}
	}

	ds := &Dataset{}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read row %d: %w", line+1, err)
		}
		line++

		date, err := parseDate(row[idx[colDate]])
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d: %w", line, err)
		}

		rec := Record{Date: date}
		for _, f := range []struct {
			col  string
			dest *float64
		}{
			{colSteps, &rec.Steps},
			{colHeartRate, &rec.HeartRate},
			{colSleep, &rec.Sleep},
			{colWater, &rec.Water},
		} {
			v, err := parseValue(row[idx[f.col]])
			if err != nil {
				return nil, fmt.Errorf("dataset: row %d, column %q: %w", line, f.col, err)
			}
			*f.dest = v
		}
		ds.Records = append(ds.Records, rec)

		if ds.UserID == "" {
			if i, ok := idx[colUserID]; ok && i < len(row) {
				ds.UserID = strings.TrimSpace(row[i])
			}
		}
	}

	if len(ds.Records) == 0 {
		return nil, fmt.Errorf("dataset: no data rows")
	}

	sort.Slice(ds.Records, func(i, j int) bool {
		return ds.Records[i].Date.Before(ds.Records[j].Date)
	})
	return ds, nil
}

// parseDate accepts 2006-01-02 or RFC3339 timestamps.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// parseValue parses a numeric cell. Empty cells are treated as zero, the
// same normalisation the scoring contract expects for missing metrics.
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable number %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %q", s)
	}
	return v, nil
}
