package goble

import (
	"context"
	"errors"
	"fmt"

	"github.com/srg/bleread/internal/transport"
)

// NormalizeError maps known go-ble error strings to structured transport errors.
// It ensures consistent handling even if the upstream library changes messages slightly.
// Returns wrapped errors to preserve original context.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", transport.ErrTimeout, err)
	}

	msg := err.Error()
	switch {
	case msg == "central manager has invalid state: have=4 want=5: is Bluetooth turned on?":
		return fmt.Errorf("%w: %v", transport.ErrBluetoothOff, err)
	case transport.ContainsIgnoreCase(msg, "bluetooth is turned off"):
		return fmt.Errorf("%w: %v", transport.ErrBluetoothOff, err)
	case transport.ContainsIgnoreCase(msg, "can't init hci"), transport.ContainsIgnoreCase(msg, "no devices available"):
		return fmt.Errorf("%w: %v", transport.ErrBluetoothOff, err)
	case transport.ContainsIgnoreCase(msg, "device not connected"):
		return fmt.Errorf("%w: %v", transport.ErrNotConnected, err)
	case transport.ContainsIgnoreCase(msg, "disconnected"):
		return fmt.Errorf("%w: %v", transport.ErrNotConnected, err)
	case transport.ContainsIgnoreCase(msg, "device already connected"):
		return fmt.Errorf("%w: %v", transport.ErrAlreadyConnected, err)
	case transport.ContainsIgnoreCase(msg, "connection is not initialized"):
		return fmt.Errorf("%w: %v", transport.ErrNotInitialized, err)
	default:
		return err
	}
}
