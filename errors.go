package dctscale

import (
	"github.com/pkg/errors"
)

var (
	// ErrShapeMismatch is returned when input dimensions disagree with the configured block size.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidConfiguration is returned for block sizes the pipeline cannot be built with.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
