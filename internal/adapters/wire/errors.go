package wire

import (
	"errors"
	"fmt"

	"github.com/photorad/photoRad/internal/domain"
)

// clientErrors are the failures a caller can act on, most specific first
var clientErrors = []error{
	domain.ErrPathOutsideRoot,
	domain.ErrFileNotFound,
	domain.ErrSoilRecordNotFound,
	domain.ErrParse,
	domain.ErrShapeMismatch,
	domain.ErrRange,
}

// ErrorMessage returns the text a remote caller sees for err: the kind of
// failure and, for file content, the line it was found on. Paths and file
// content stay out of it. It returns "" for errors that are not the
// caller's to fix.
func ErrorMessage(err error) string {
	for _, kind := range clientErrors {
		if !errors.Is(err, kind) {
			continue
		}
		var lineErr *domain.LineError
		if errors.As(err, &lineErr) {
			return fmt.Sprintf("%v on line %d", kind, lineErr.Line)
		}
		return kind.Error()
	}
	return ""
}
