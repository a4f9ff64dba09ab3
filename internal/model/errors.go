package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPlacement = errors.New("invalid panel placement")
	ErrInvalidSheet     = errors.New("invalid sheet dimensions")
	ErrInvalidKerf      = errors.New("invalid kerf")
	ErrInvalidMode      = errors.New("invalid mode")
)

// InputError reports which part of a derivation request was rejected.
type InputError struct {
	Field   string // e.g. "width", "sheet.height"
	PanelID string // empty for sheet-level fields
	Value   float64
	Err     error
}

func (e *InputError) Error() string {
	if e == nil {
		return ""
	}
	if e.PanelID != "" {
		return fmt.Sprintf("%s: panel %q has %s=%v", e.Err, e.PanelID, e.Field, e.Value)
	}
	return fmt.Sprintf("%s: %s=%v", e.Err, e.Field, e.Value)
}

func (e *InputError) Unwrap() error { return e.Err }
