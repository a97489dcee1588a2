// Package textgrid reads whitespace-delimited numeric matrices such as
// simulation results and grid point files.
package textgrid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/photorad/photoRad/internal/domain"
)

// maxLineBytes bounds one row; a results row carries one value per grid point
const maxLineBytes = 64 << 20

// Options selects the column window [SkipColumns, end) kept from every row.
// end is Columns when set, otherwise the token count of the first row.
type Options struct {
	SkipColumns int
	Columns     int
}

// ReadRows parses every non-empty line of path into a row of floats
func ReadRows(path string, opts Options) ([][]float64, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parse(f, path, opts)
}

// ReadMatrix parses path into a matrix with one row per non-empty line
func ReadMatrix(path string, opts Options) (*mat.Dense, error) {
	rows, err := ReadRows(path, opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: %s has no data", domain.ErrShapeMismatch, path)
	}

	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: %s row %d has %d values, want %d",
				domain.ErrShapeMismatch, path, i+1, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// CountRows counts the non-empty lines of path. Every token must still be
// a finite number.
func CountRows(path string) (int, error) {
	rows, err := ReadRows(path, Options{})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), maxLineBytes)
	return scanner
}

func parse(r io.Reader, path string, opts Options) ([][]float64, error) {
	if opts.SkipColumns < 0 || opts.Columns < 0 {
		return nil, fmt.Errorf("%w: negative column window (%d, %d)", domain.ErrRange, opts.SkipColumns, opts.Columns)
	}

	var rows [][]float64
	end := opts.Columns
	scanner := newScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		if end == 0 {
			end = len(tokens)
		}
		if len(tokens) < end || end < opts.SkipColumns {
			return nil, fmt.Errorf("%s: %w", path, &domain.LineError{
				Line: line,
				Err: fmt.Errorf("%w: %d values, want at least %d",
					domain.ErrShapeMismatch, len(tokens), max(end, opts.SkipColumns)),
			})
		}

		row := make([]float64, 0, end-opts.SkipColumns)
		for _, tok := range tokens[opts.SkipColumns:end] {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%s: %w", path, &domain.LineError{
					Line: line,
					Err:  fmt.Errorf("%w: %q is not a finite number", domain.ErrParse, tok),
				})
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}
