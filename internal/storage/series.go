package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Series is a states.csv table held in memory.
type Series struct {
	Header []string
	Rows   [][]float64

	index map[string]int
}

func ReadSeries(in io.Reader) (*Series, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	s := &Series{Rows: [][]float64{}, index: map[string]int{}}
	if len(records) == 0 {
		return s, nil
	}

	s.Header = records[0]
	for i, name := range s.Header {
		s.index[name] = i
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != len(s.Header) {
			return nil, fmt.Errorf("states.csv line %d: expected %d fields, got %d", i+1, len(s.Header), len(record))
		}

		row := make([]float64, len(record))
		for j, field := range record {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("states.csv line %d column %s: %w", i+1, s.Header[j], err)
			}
			row[j] = val
		}
		s.Rows = append(s.Rows, row)
	}

	return s, nil
}

func (s *Series) Len() int { return len(s.Rows) }

// Bodies is the number of bodies recorded per row.
func (s *Series) Bodies() int {
	if len(s.Header) < 2 {
		return 0
	}
	return (len(s.Header) - 2) / 10
}

func (s *Series) Column(name string) ([]float64, error) {
	idx, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	out := make([]float64, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

func (s *Series) Times() []float64 {
	t, _ := s.Column("time")
	return t
}

// Positions returns the x, y and z history of body i.
func (s *Series) Positions(i int) (xs, ys, zs []float64, err error) {
	if xs, err = s.Column(fmt.Sprintf("b%d_x", i)); err != nil {
		return
	}
	if ys, err = s.Column(fmt.Sprintf("b%d_y", i)); err != nil {
		return
	}
	zs, err = s.Column(fmt.Sprintf("b%d_z", i))
	return
}
