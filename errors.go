package hashsafe

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrTypeSafety indicates a container key of an unapproved reference type
	// was encountered while decoding untrusted data.
	ErrTypeSafety = errors.New("type safety violation")

	// ErrDecode indicates the wire data could not be decoded.
	ErrDecode = errors.New("decode failed")

	// ErrEncode indicates a value could not be encoded.
	ErrEncode = errors.New("encode failed")
)

// TypeSafetyError reports the runtime type of a container key that was
// refused by the fallback strategy under a collision-resistant policy.
// The decode that produced it is aborted; no partial object graph survives.
type TypeSafetyError struct {
	Type reflect.Type // offending key type
}

func (e *TypeSafetyError) Error() string {
	return fmt.Sprintf("type safety violation: refusing to hash container key of type %s from untrusted data", e.Type)
}

func (e *TypeSafetyError) Unwrap() error {
	return ErrTypeSafety
}

// CodecError represents a marshal/unmarshal failure in the wire codec.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrDecode, ErrEncode)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newTypeSafetyError creates a TypeSafetyError for a rejected key type.
func newTypeSafetyError(t reflect.Type) error {
	return &TypeSafetyError{Type: t}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
