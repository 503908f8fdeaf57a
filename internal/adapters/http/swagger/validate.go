package swagger

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrInvalidDocument wraps parse and validation failures of the embedded document.
var ErrInvalidDocument = errors.New("invalid openapi document")

// Load parses the embedded OpenAPI document and resolves its references.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return doc, nil
}

// Validate checks the embedded document against the OpenAPI 3 rules,
// including its examples.
func Validate(ctx context.Context) error {
	doc, err := Load(ctx)
	if err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return nil
}

// Documented reports whether path has an entry in the embedded document.
func Documented(ctx context.Context, path string) (bool, error) {
	doc, err := Load(ctx)
	if err != nil {
		return false, err
	}
	return doc.Paths.Value(path) != nil, nil
}
