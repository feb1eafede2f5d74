package main

import (
	"errors"
	"fmt"

	"github.com/srg/bleread/internal/reader"
	"github.com/srg/bleread/internal/transport"
)

// Process exit codes. A harness running bleread as a subprocess can tell
// "no radio", "no device" and "no characteristic" apart without parsing stderr.
const (
	exitOK                       = 0
	exitUsage                    = 1
	exitAdapterUnavailable       = 2
	exitConnectionFailed         = 3
	exitCharacteristicReadFailed = 4
)

// ExitCode maps an error returned by a command to the process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, reader.ErrAdapterUnavailable):
		return exitAdapterUnavailable
	case errors.Is(err, reader.ErrConnectionFailed):
		return exitConnectionFailed
	case errors.Is(err, reader.ErrCharacteristicReadFailed):
		return exitCharacteristicReadFailed
	default:
		return exitUsage
	}
}

// FormatUserError renders err for the terminal, appending a hint for the
// failure kinds a user can act on.
func FormatUserError(err error) string {
	var hint string
	switch {
	case errors.Is(err, transport.ErrBluetoothOff):
		hint = "is Bluetooth turned on?"
	case errors.Is(err, transport.ErrUnsupported) && errors.Is(err, reader.ErrAdapterUnavailable):
		hint = "this platform has no supported BLE stack"
	case errors.Is(err, transport.ErrTimeout):
		hint = "is the device powered, in range and advertising?"
	case errors.Is(err, transport.ErrUnsupported):
		hint = "the characteristic does not permit reads"
	}

	var notFound *transport.NotFoundError
	if hint == "" && errors.As(err, &notFound) {
		hint = "check the characteristic UUID against the device's GATT profile"
	}

	if hint == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s (%s)", err, hint)
}
