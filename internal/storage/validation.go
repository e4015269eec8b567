package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidTag   = errors.New("invalid checkpoint tag")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTag rejects tags that are blank, too long, or contain path
// separators or whitespace.
func validateTag(tag string) error {
	if strings.TrimSpace(tag) == "" {
		return fmt.Errorf("%w: tag cannot be empty", ErrInvalidTag)
	}
	if len(tag) > 64 {
		return fmt.Errorf("%w: tag must be at most 64 characters", ErrInvalidTag)
	}
	if strings.ContainsAny(tag, "/\\ \t\n") || strings.Contains(tag, "..") {
		return fmt.Errorf("%w: %q cannot contain path separators or spaces", ErrInvalidTag, tag)
	}
	return nil
}
