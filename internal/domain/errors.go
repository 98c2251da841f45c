package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("not found")

type ErrorKind string

const (
	KindDuplicateEntity           ErrorKind = "DUPLICATE_ENTITY"
	KindInvalidRelationship       ErrorKind = "INVALID_RELATIONSHIP"
	KindOutOfRangeValue           ErrorKind = "OUT_OF_RANGE_VALUE"
	KindInvalidValue              ErrorKind = "INVALID_VALUE"
	KindInvalidReference          ErrorKind = "INVALID_REFERENCE"
	KindPartialCompositionFailure ErrorKind = "PARTIAL_COMPOSITION_FAILURE"
)

// NonFieldErrors keys messages that concern the record as a whole.
const NonFieldErrors = "non_field_errors"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a write before it is committed. Fields keep the
// order in which the checks failed; the first one is the reported message.
type ValidationError struct {
	Kind   ErrorKind
	Fields []FieldError
}

func NewValidationError(kind ErrorKind, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Message() string {
	if len(e.Fields) == 0 {
		return string(e.Kind)
	}
	return e.Fields[0].Message
}

// FieldMap returns the messages keyed by field.
func (e *ValidationError) FieldMap() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := out[f.Field]; !ok {
			out[f.Field] = f.Message
		}
	}
	return out
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

// InvalidPK mirrors the message used for unknown foreign keys.
func InvalidPK(field string, id int64) *ValidationError {
	return NewValidationError(KindInvalidReference, field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
}

// CompositionError reports the ticket that aborted an order.
type CompositionError struct {
	Index int
	Err   error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("ticket %d: %v", e.Index, e.Err)
}

func (e *CompositionError) Unwrap() error {
	return e.Err
}

func (e *CompositionError) Kind() ErrorKind {
	return KindPartialCompositionFailure
}

// KindOf reports the validation kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var ce *CompositionError
	if errors.As(err, &ce) {
		return ce.Kind(), true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return "", false
}
