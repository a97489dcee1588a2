package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound indicates a referenced input path does not exist
	ErrFileNotFound = errors.New("file not found")

	// ErrParse indicates a non-numeric token where a number was expected
	ErrParse = errors.New("parse error")

	// ErrShapeMismatch indicates the point count of a points file and the
	// column count of a results file (or an expected series length) disagree
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrRange indicates a month, day, DLI, photoperiod or temperature value
	// outside its allowed domain
	ErrRange = errors.New("value out of range")

	// ErrConfigConflict marks a plant defined with both temperatures and
	// hardiness zones. It is only ever logged; temperature takes precedence.
	ErrConfigConflict = errors.New("both temperature and hardiness zone provided")

	// ErrFileExists indicates an output path is taken and overwriting was
	// not requested
	ErrFileExists = errors.New("file already exists")

	// ErrSoilRecordNotFound indicates the soil dataset has no usable record
	ErrSoilRecordNotFound = errors.New("soil record not found")

	// ErrPathOutsideRoot indicates an input path resolves outside the
	// directory the service may read from
	ErrPathOutsideRoot = errors.New("path outside the data directory")
)

// LineError locates an input error on one line of a text file
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
