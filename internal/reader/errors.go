package reader

import "fmt"

// ErrorKind classifies why a read failed
type ErrorKind string

const (
	AdapterUnavailable       ErrorKind = "adapter_unavailable"
	ConnectionFailed         ErrorKind = "connection_failed"
	CharacteristicReadFailed ErrorKind = "characteristic_read_failed"
)

// ReadError is returned by ReadCharacteristicValue. Kind tells apart "no radio",
// "no device" and "no characteristic"; Err keeps the transport's cause.
type ReadError struct {
	Kind           ErrorKind
	Address        string
	Characteristic string
	Err            error
}

// Error implements the error interface
func (e *ReadError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return string(e.Kind)
	}
	switch e.Kind {
	case AdapterUnavailable:
		return fmt.Sprintf("BLE adapter unavailable: %v", e.Err)
	case ConnectionFailed:
		return fmt.Sprintf("failed to connect to %s: %v", e.Address, e.Err)
	case CharacteristicReadFailed:
		return fmt.Sprintf("failed to read characteristic %s from %s: %v", e.Characteristic, e.Address, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

// Unwrap exposes the transport error
func (e *ReadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is allows errors.Is to compare ReadError values by Kind
func (e *ReadError) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*ReadError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Predefined sentinel errors, one per failure kind
var (
	ErrAdapterUnavailable       = &ReadError{Kind: AdapterUnavailable}
	ErrConnectionFailed         = &ReadError{Kind: ConnectionFailed}
	ErrCharacteristicReadFailed = &ReadError{Kind: CharacteristicReadFailed}
)
