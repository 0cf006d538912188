package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

var csvHeader = []string{"Datum", "Temperatur in °C", "Humidity in %", "Lichtlevel", "Lichtbewertung", "Relay Status"}

// CSVLog appends records to a flat file. The file is opened for every write.
type CSVLog struct {
	path string
}

// NewCSVLog creates the file with its header row if it does not exist yet.
func NewCSVLog(path string) (*CSVLog, error) {
	if _, err := os.Stat(path); err == nil {
		return &CSVLog{path: path}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := writeRow(f, csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return &CSVLog{path: path}, nil
}

func (l *CSVLog) Name() string { return "csv" }

func (l *CSVLog) Append(ctx context.Context, rec Record) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", l.path, err)
	}
	if err := writeRow(f, rec.Fields()); err != nil {
		f.Close()
		return fmt.Errorf("failed to append record: %w", err)
	}
	return f.Close()
}

// Records reads back all rows below the header.
func (l *CSVLog) Records() ([]Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", l.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func writeRow(w io.Writer, row []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func parseRow(row []string) (Record, error) {
	temperature, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return Record{}, fmt.Errorf("invalid temperature %q: %w", row[1], err)
	}
	humidity, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return Record{}, fmt.Errorf("invalid humidity %q: %w", row[2], err)
	}
	return Record{
		Timestamp:      row[0],
		Temperature:    temperature,
		Humidity:       humidity,
		Lux:            row[3],
		Classification: row[4],
		Relay:          row[5],
	}, nil
}
