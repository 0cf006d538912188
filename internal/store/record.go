package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/multierr"
)

// TimeLayout is the layout of the Datum column in both sinks.
const TimeLayout = "2006-01-02 15:04:05"

// Record is one persisted measurement. The same values go to every sink.
type Record struct {
	Timestamp      string
	Temperature    float64
	Humidity       float64
	Lux            string
	Classification string
	Relay          string
}

func NewRecord(ts time.Time, temperature, humidity, lux float64, classification, relay string) Record {
	return Record{
		Timestamp:      ts.Format(TimeLayout),
		Temperature:    temperature,
		Humidity:       humidity,
		Lux:            fmt.Sprintf("%.2f", lux),
		Classification: classification,
		Relay:          relay,
	}
}

// Fields returns the record as CSV columns.
func (r Record) Fields() []string {
	return []string{
		r.Timestamp,
		strconv.FormatFloat(r.Temperature, 'f', -1, 64),
		strconv.FormatFloat(r.Humidity, 'f', -1, 64),
		r.Lux,
		r.Classification,
		r.Relay,
	}
}

// Sink is an append-only destination for records.
type Sink interface {
	Name() string
	Append(ctx context.Context, rec Record) error
}

// Journal writes every record to all sinks in order. A failure stops at the
// failing sink; earlier sinks keep the record.
type Journal struct {
	sinks []Sink
}

func NewJournal(sinks ...Sink) *Journal {
	return &Journal{sinks: sinks}
}

// Append writes rec to every sink in order. A cancelled ctx is only honoured
// before the first write; once started, the record is committed to all sinks.
func (j *Journal) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)
	for _, s := range j.sinks {
		if err := s.Append(ctx, rec); err != nil {
			return fmt.Errorf("%s sink: %w", s.Name(), err)
		}
	}
	return nil
}

// Close closes every sink that holds a resource.
func (j *Journal) Close() error {
	var err error
	for _, s := range j.sinks {
		if c, ok := s.(interface{ Close() error }); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}
