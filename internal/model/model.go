// Package model contains the data structures shared by the validoc client and the
// reference document service.
package model

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var (
	// ErrTrailingData is returned when a document body holds more than one JSON value.
	ErrTrailingData = errors.New("unexpected data after document")
	// ErrMissingField is returned when a document body lacks filename or hash.
	ErrMissingField = errors.New("missing field")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json names so messages match the wire shape.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// documentBody is the wire form of Document. Pointers tell an absent or null key
// apart from an empty string.
type documentBody struct {
	Filename *string `json:"filename" validate:"required"`
	Hash     *string `json:"hash" validate:"required"`
}

// DecodeDocument reads exactly one Document from r. Both keys must be present;
// other keys are ignored and empty strings are kept as sent.
func DecodeDocument(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)

	var body documentBody
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}

	if err := validate.Struct(&body); err != nil {
		return nil, fieldError(err)
	}

	return &Document{Filename: *body.Filename, Hash: *body.Hash}, nil
}

// fieldError flattens validator output into a single line.
func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid document: %w", err)
	}
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		names = append(names, fe.Field())
	}
	return fmt.Errorf("invalid document: %w: %s", ErrMissingField, strings.Join(names, ", "))
}
