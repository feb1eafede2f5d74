package testutils

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/srg/bleread/internal/transport"
	"github.com/stretchr/testify/mock"
)

// MockAdapter implements transport.Adapter. Links it opens record their calls
// on the same mock, so Calls holds one ordered log for the whole session.
type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) Start() error {
	return m.MethodCalled("Start").Error(0)
}

func (m *MockAdapter) Connect(address string) (transport.Link, error) {
	if err := m.MethodCalled("Connect", address).Error(0); err != nil {
		return nil, err
	}
	return &mockLink{adapter: m}, nil
}

func (m *MockAdapter) Stop() error {
	return m.MethodCalled("Stop").Error(0)
}

// MethodNames returns the recorded calls in order, e.g. [Start Connect ReadCharacteristic Close Stop]
func (m *MockAdapter) MethodNames() []string {
	calls := m.Calls
	names := make([]string, 0, len(calls))
	for _, c := range calls {
		names = append(names, c.Method)
	}
	return names
}

// CountCalls returns how many times method was recorded
func (m *MockAdapter) CountCalls(method string) int {
	n := 0
	for _, c := range m.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

type mockLink struct {
	adapter *MockAdapter
}

func (l *mockLink) ReadCharacteristic(uuid string) ([]byte, error) {
	args := l.adapter.MethodCalled("ReadCharacteristic", uuid)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (l *mockLink) Close() error {
	return l.adapter.MethodCalled("Close").Error(0)
}

// TransportBuilder configures the peripheral a MockTransport simulates
type TransportBuilder struct {
	address    string
	values     map[string][]byte
	startErr   error
	connectErr error
	readErr    error
	closeErr   error
	stopErr    error
	latency    time.Duration
}

// NewTransportBuilder creates a builder for a reachable device at address
func NewTransportBuilder(address string) *TransportBuilder {
	return &TransportBuilder{
		address: address,
		values:  make(map[string][]byte),
	}
}

// WithCharacteristic exposes a readable characteristic holding value
func (b *TransportBuilder) WithCharacteristic(uuid string, value []byte) *TransportBuilder {
	b.values[transport.NormalizeUUID(uuid)] = value
	return b
}

// WithStartError makes every adapter fail to start
func (b *TransportBuilder) WithStartError(err error) *TransportBuilder {
	b.startErr = err
	return b
}

// WithConnectError makes every connect attempt fail
func (b *TransportBuilder) WithConnectError(err error) *TransportBuilder {
	b.connectErr = err
	return b
}

// WithReadError makes every characteristic read fail
func (b *TransportBuilder) WithReadError(err error) *TransportBuilder {
	b.readErr = err
	return b
}

// WithCloseError makes closing the link fail
func (b *TransportBuilder) WithCloseError(err error) *TransportBuilder {
	b.closeErr = err
	return b
}

// WithStopError makes stopping the adapter fail
func (b *TransportBuilder) WithStopError(err error) *TransportBuilder {
	b.stopErr = err
	return b
}

// WithLatency delays Start and ReadCharacteristic, widening the window in which sessions could overlap
func (b *TransportBuilder) WithLatency(d time.Duration) *TransportBuilder {
	b.latency = d
	return b
}

// Build returns a MockTransport that hands out a fresh MockAdapter per Factory call
func (b *TransportBuilder) Build() *MockTransport {
	return &MockTransport{cfg: *b}
}

// MockTransport produces MockAdapters and tracks how many sessions are open at once
type MockTransport struct {
	cfg TransportBuilder

	mu        sync.Mutex
	adapters  []*MockAdapter
	active    atomic.Int32
	maxActive atomic.Int32
}

// Factory returns a transport.Factory backed by this mock
func (t *MockTransport) Factory() transport.Factory {
	return func() transport.Adapter {
		a := t.newAdapter()
		t.mu.Lock()
		t.adapters = append(t.adapters, a)
		t.mu.Unlock()
		return a
	}
}

// Adapters returns every adapter created so far, in creation order
func (t *MockTransport) Adapters() []*MockAdapter {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*MockAdapter(nil), t.adapters...)
}

// MaxConcurrentSessions reports the highest number of adapters started and not yet stopped
func (t *MockTransport) MaxConcurrentSessions() int {
	return int(t.maxActive.Load())
}

func (t *MockTransport) newAdapter() *MockAdapter {
	cfg := t.cfg
	a := &MockAdapter{}

	a.On("Start").Return(cfg.startErr).Run(func(mock.Arguments) {
		if cfg.startErr != nil {
			return
		}
		n := t.active.Add(1)
		for {
			peak := t.maxActive.Load()
			if n <= peak || t.maxActive.CompareAndSwap(peak, n) {
				break
			}
		}
		time.Sleep(cfg.latency)
	})

	connectErr := cfg.connectErr
	if connectErr == nil {
		a.On("Connect", cfg.address).Return(nil)
		connectErr = transport.ErrNotConnected // any other address is unreachable
	}
	a.On("Connect", mock.Anything).Return(connectErr)

	for uuid, value := range cfg.values {
		a.On("ReadCharacteristic", mock.MatchedBy(matchUUID(uuid))).
			Return(value, cfg.readErr).
			Run(func(mock.Arguments) { time.Sleep(cfg.latency) })
	}
	a.On("ReadCharacteristic", mock.Anything).
		Return(nil, readFallbackError(cfg.readErr))

	a.On("Close").Return(cfg.closeErr)
	a.On("Stop").Return(cfg.stopErr).Run(func(mock.Arguments) {
		t.active.Add(-1)
	})

	return a
}

func matchUUID(normalized string) func(string) bool {
	return func(uuid string) bool {
		return transport.NormalizeUUID(uuid) == normalized
	}
}

func readFallbackError(readErr error) error {
	if readErr != nil {
		return readErr
	}
	return &transport.NotFoundError{Resource: "characteristic"}
}
