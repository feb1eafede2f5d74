//go:build linux

package goble

import (
	"fmt"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
)

func newPlatformDevice() (ble.Device, error) {
	d, err := linux.NewDevice()
	if err != nil {
		return nil, fmt.Errorf("creating linux device: %w", err)
	}
	return d, nil
}
