package goble

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-ble/ble"
	"github.com/sirupsen/logrus"
	"github.com/srg/bleread/internal/transport"
)

// DefaultConnectTimeout bounds a single dial attempt. It is the transport's own
// timeout; callers above the transport do not add one.
const DefaultConnectTimeout = 30 * time.Second

// Options configures the go-ble transport
type Options struct {
	ConnectTimeout time.Duration
}

// Adapter implements transport.Adapter on top of go-ble
type Adapter struct {
	opts   Options
	logger *logrus.Logger

	mu    sync.Mutex
	radio Radio
	link  *Link
}

// NewAdapter creates an unstarted go-ble adapter
func NewAdapter(opts Options, logger *logrus.Logger) *Adapter {
	if logger == nil {
		logger = logrus.New()
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	return &Adapter{opts: opts, logger: logger}
}

// NewFactory returns a transport.Factory producing a fresh go-ble adapter per call
func NewFactory(opts Options, logger *logrus.Logger) transport.Factory {
	return func() transport.Adapter {
		return NewAdapter(opts, logger)
	}
}

// Start creates the platform BLE device
func (a *Adapter) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.radio != nil {
		return fmt.Errorf("adapter already started: %w", transport.ErrAlreadyConnected)
	}

	a.logger.Debug("Starting BLE adapter...")

	radio, err := DeviceFactory()
	if err != nil {
		a.logger.WithField("error", err).Error("Failed to create BLE device")
		return fmt.Errorf("failed to create BLE device: %w", NormalizeError(err))
	}

	a.radio = radio
	return nil
}

// Connect dials the peripheral, bounded by Options.ConnectTimeout
func (a *Adapter) Connect(address string) (transport.Link, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.radio == nil {
		return nil, fmt.Errorf("adapter is not started: %w", transport.ErrNotInitialized)
	}
	if a.link != nil && !a.link.isClosed() {
		a.logger.WithField("address", address).Warn("Connection attempt while already connected")
		return nil, transport.ErrAlreadyConnected
	}

	a.logger.WithFields(logrus.Fields{
		"address": address,
		"timeout": a.opts.ConnectTimeout,
	}).Info("Connecting to BLE device...")

	ctx, cancel := context.WithTimeout(context.Background(), a.opts.ConnectTimeout)
	defer cancel()

	client, err := a.radio.Dial(ctx, address)
	if err != nil {
		a.logger.WithFields(logrus.Fields{
			"address": address,
			"error":   err,
		}).Error("Failed to dial BLE device")
		return nil, fmt.Errorf("failed to connect to device with address \"%s\": %w", address, NormalizeError(err))
	}

	a.link = &Link{client: client, address: address, logger: a.logger}
	a.logger.WithField("address", address).Info("Connected to BLE device")
	return a.link, nil
}

// Stop closes any link still open and stops the platform device
func (a *Adapter) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.radio == nil {
		return fmt.Errorf("adapter is not started: %w", transport.ErrNotInitialized)
	}

	if a.link != nil {
		if err := a.link.Close(); err != nil {
			a.logger.WithError(err).Warn("Error disconnecting from device")
		}
		a.link = nil
	}

	err := a.radio.Stop()
	a.radio = nil
	if err != nil {
		return fmt.Errorf("failed to stop BLE device: %w", NormalizeError(err))
	}

	a.logger.Debug("BLE adapter stopped")
	return nil
}

// Link is a live go-ble connection
type Link struct {
	client  GATTClient
	address string
	logger  *logrus.Logger

	mu     sync.Mutex
	closed bool
}

// ReadCharacteristic discovers the GATT profile and reads the characteristic with the given UUID.
// The characteristic is looked up across all services.
func (l *Link) ReadCharacteristic(uuid string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, transport.ErrNotConnected
	}

	profile, err := l.client.DiscoverProfile(true)
	if err != nil {
		return nil, fmt.Errorf("failed to discover profile: %w", NormalizeError(err))
	}

	char := findCharacteristic(profile, uuid)
	if char == nil {
		return nil, &transport.NotFoundError{Resource: "characteristic", UUID: uuid}
	}
	if char.Property&ble.CharRead == 0 {
		return nil, fmt.Errorf("characteristic %q does not permit reads: %w", uuid, transport.ErrUnsupported)
	}

	l.logger.WithFields(logrus.Fields{
		"address":        l.address,
		"characteristic": uuid,
	}).Debug("Reading characteristic...")

	data, err := l.client.ReadCharacteristic(char)
	if err != nil {
		return nil, fmt.Errorf("failed to read characteristic %q: %w", uuid, NormalizeError(err))
	}
	return data, nil
}

// Close cancels the connection. Closing twice is a no-op.
func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if err := l.client.CancelConnection(); err != nil {
		return NormalizeError(err)
	}
	l.logger.WithField("address", l.address).Info("Disconnected from BLE device")
	return nil
}

func (l *Link) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// findCharacteristic returns the first characteristic in profile matching uuid, or nil
func findCharacteristic(profile *ble.Profile, uuid string) *ble.Characteristic {
	if profile == nil {
		return nil
	}
	target := transport.NormalizeUUID(uuid)
	for _, svc := range profile.Services {
		for _, char := range svc.Characteristics {
			if transport.NormalizeUUID(char.UUID.String()) == target {
				return char
			}
		}
	}
	return nil
}
