package knapsack

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three ways an optimization request can be rejected.
// Match them with errors.Is; the typed errors below carry the details.
var (
	ErrInvalidCapacity  = errors.New("invalid capacity")
	ErrInvalidItem      = errors.New("invalid item")
	ErrCapacityTooLarge = errors.New("capacity too large")
)

// Item fields named by ItemError.
const (
	FieldName = "name"
	FieldCost = "cost"
	FieldGain = "gain"
)

// CapacityError reports a capacity that is negative or not a finite number.
type CapacityError struct {
	Value  float64
	Reason string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s %v: %s", ErrInvalidCapacity, e.Value, e.Reason)
}

func (e *CapacityError) Unwrap() error {
	return ErrInvalidCapacity
}

// ItemError identifies the first offending item by its input index.
type ItemError struct {
	Index  int
	Field  string
	Value  float64
	Reason string
}

func (e *ItemError) Error() string {
	if e.Field == FieldName {
		return fmt.Sprintf("%s %d: %s %s", ErrInvalidItem, e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %d: %s %v %s", ErrInvalidItem, e.Index, e.Field, e.Value, e.Reason)
}

func (e *ItemError) Unwrap() error {
	return ErrInvalidItem
}

// LimitError is returned when solving exactly would exceed the configured
// resource ceiling.
type LimitError struct {
	Items         int
	CapacityUnits int64
	Reason        string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: %d items over %d capacity units: %s",
		ErrCapacityTooLarge, e.Items, e.CapacityUnits, e.Reason)
}

func (e *LimitError) Unwrap() error {
	return ErrCapacityTooLarge
}
