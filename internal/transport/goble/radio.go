package goble

import (
	"context"

	"github.com/go-ble/ble"
)

// Radio is the part of a ble.Device this transport drives: dial one peripheral
// and stop the stack.
type Radio interface {
	Dial(ctx context.Context, address string) (GATTClient, error)
	Stop() error
}

// GATTClient is the part of a ble.Client used for a single read.
type GATTClient interface {
	DiscoverProfile(force bool) (*ble.Profile, error)
	ReadCharacteristic(c *ble.Characteristic) ([]byte, error)
	CancelConnection() error
}

// DeviceFactory creates the platform radio (can be overridden in tests)
//
//nolint:revive // DeviceFactory name is intentional for test mocking as goble.DeviceFactory
var DeviceFactory = func() (Radio, error) {
	dev, err := newPlatformDevice()
	if err != nil {
		return nil, err
	}
	return &bleRadio{dev: dev}, nil
}

// bleRadio adapts ble.Device to Radio
type bleRadio struct {
	dev ble.Device
}

func (r *bleRadio) Dial(ctx context.Context, address string) (GATTClient, error) {
	client, err := r.dev.Dial(ctx, ble.NewAddr(address))
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *bleRadio) Stop() error {
	return r.dev.Stop()
}
