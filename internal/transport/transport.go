package transport

// Adapter is a single BLE radio/stack session.
//
// An Adapter is created per read, started before use and stopped exactly once
// after a successful Start. Links opened through it do not outlive Stop.
type Adapter interface {
	// Start initializes the local radio. Nothing needs releasing if it fails.
	Start() error

	// Connect opens a link to the peripheral with the given address.
	// Connection timeouts are owned by the implementation.
	Connect(address string) (Link, error)

	// Stop releases the radio and any link still open on it.
	Stop() error
}

// Link is an active connection to one peripheral.
type Link interface {
	ReadCharacteristic(uuid string) ([]byte, error)
	Close() error
}

// Factory creates a fresh, unstarted Adapter.
type Factory func() Adapter
