// Package samples reads sample sets and log-weight vectors from disk.
// A single column (or a flat JSON array) loads as a rank-1 array; several
// columns (or nested JSON arrays) load as a rank-2 table so that callers
// requiring 1-D input can reject it with their own error.
package samples

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"nestkit/internal/prior"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// Load reads path by extension: .csv/.txt or .json.
func Load(path string) (prior.Array, error) {
	p, err := ExpandHome(path)
	if err != nil {
		return prior.Array{}, err
	}
	f, err := os.Open(p)
	if err != nil {
		return prior.Array{}, err
	}
	defer f.Close()
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".csv", ".txt":
		a, err := ReadCSV(f)
		if err != nil {
			return prior.Array{}, fmt.Errorf("%s: %w", path, err)
		}
		return a, nil
	case ".json":
		a, err := ReadJSON(f)
		if err != nil {
			return prior.Array{}, fmt.Errorf("%s: %w", path, err)
		}
		return a, nil
	default:
		return prior.Array{}, fmt.Errorf("unsupported samples extension: %s", ext)
	}
}

// ReadCSV parses comma-separated numbers, one record per line. Lines
// starting with '#' are skipped, as is a single non-numeric header row.
func ReadCSV(r io.Reader) (prior.Array, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	var rows [][]float64
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return prior.Array{}, err
		}
		line++
		row, err := parseRecord(rec)
		if err != nil {
			if line == 1 {
				continue
			}
			return prior.Array{}, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return fromRows(rows)
}

func parseRecord(rec []string) ([]float64, error) {
	out := make([]float64, len(rec))
	for i, f := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadJSON parses a JSON array of numbers or an array of number arrays.
func ReadJSON(r io.Reader) (prior.Array, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return prior.Array{}, err
	}
	var flat []float64
	if err := json.Unmarshal(raw, &flat); err == nil {
		return prior.Vector(flat), nil
	}
	var rows [][]float64
	if err := json.Unmarshal(raw, &rows); err != nil {
		return prior.Array{}, fmt.Errorf("want an array of numbers or of number arrays: %w", err)
	}
	return prior.Matrix(rows)
}

func fromRows(rows [][]float64) (prior.Array, error) {
	if len(rows) == 0 {
		return prior.Vector(nil), nil
	}
	if len(rows[0]) == 1 {
		flat := make([]float64, 0, len(rows))
		for _, r := range rows {
			flat = append(flat, r[0])
		}
		return prior.Vector(flat), nil
	}
	return prior.Matrix(rows)
}
