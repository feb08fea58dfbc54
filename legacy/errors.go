package legacy

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("array not found")
	ErrNotFieldData = errors.New("monitor data holds no field components")
)

// UnsupportedKindError reports a simulation component the legacy format
// cannot express
type UnsupportedKindError struct {
	Category string // material, geometry, source, source time or monitor
	Kind     string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("legacy format does not support %s type %s", e.Category, e.Kind)
}
