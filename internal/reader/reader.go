package reader

import (
	"context"
	"encoding/hex"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/srg/bleread/internal/tracer"
	"github.com/srg/bleread/internal/transport"
)

// Progress phases reported through ProgressCallback
const (
	PhaseStarting   = "Starting"
	PhaseConnecting = "Connecting"
	PhaseReading    = "Reading"
	PhaseDone       = "Done"
	PhaseFailed     = "Failed"
)

// radio guards the host BLE radio, which supports a single session.
var radio sync.Mutex

// ProgressCallback is called when the read phase changes
type ProgressCallback func(phase string)

// Options identifies the peripheral and characteristic a Reader targets
type Options struct {
	Address            string
	CharacteristicUUID string
	Progress           ProgressCallback
}

// Reader reads one characteristic from one peripheral per call
type Reader struct {
	address  string
	charUUID string
	factory  transport.Factory
	logger   *logrus.Logger
	progress ProgressCallback
}

// New validates opts and returns a Reader that creates its adapters with factory.
func New(opts Options, factory transport.Factory, logger *logrus.Logger) (*Reader, error) {
	if factory == nil {
		return nil, errors.New("transport factory is required")
	}
	if _, err := transport.ValidateAddress(opts.Address); err != nil {
		return nil, err
	}
	if _, err := transport.ValidateUUID(opts.CharacteristicUUID); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(string) {} // No-op callback
	}

	return &Reader{
		address:  opts.Address,
		charUUID: opts.CharacteristicUUID,
		factory:  factory,
		logger:   logger,
		progress: progress,
	}, nil
}

// Address returns the target device address
func (r *Reader) Address() string {
	return r.address
}

// CharacteristicUUID returns the target characteristic UUID
func (r *Reader) CharacteristicUUID() string {
	return r.charUUID
}

// ReadCharacteristicValue starts an adapter, connects to the device, reads the
// characteristic and returns its raw value.
//
// The adapter is stopped before returning on every path once Start has
// succeeded; it is never stopped if Start fails. There are no retries and no
// timeout beyond the transport's own. Failures are *ReadError values matching
// ErrAdapterUnavailable, ErrConnectionFailed or ErrCharacteristicReadFailed.
func (r *Reader) ReadCharacteristicValue() (value []byte, err error) {
	radio.Lock()
	defer radio.Unlock()

	readID := newReadID()
	log := r.logger.WithFields(logrus.Fields{
		"address":        r.address,
		"characteristic": r.charUUID,
		"read_id":        readID,
	})

	ctx, span := tracer.StartSpan(context.Background(), "ble.read", trace.WithAttributes(
		tracer.StringAttr("ble.address", r.address),
		tracer.StringAttr("ble.characteristic", r.charUUID),
		tracer.StringAttr("read.id", readID),
	))
	defer func() {
		if err != nil {
			tracer.RecordError(span, err)
			r.progress(PhaseFailed)
			log.WithError(err).Debug("Characteristic read failed")
		} else {
			tracer.SetOK(span)
			r.progress(PhaseDone)
		}
		span.End()
	}()

	r.progress(PhaseStarting)
	adapter := r.factory()
	if err := traced(ctx, "ble.adapter.start", adapter.Start); err != nil {
		return nil, r.fail(AdapterUnavailable, err)
	}

	// Stop runs on every path from here on.
	defer func() {
		if stopErr := traced(ctx, "ble.adapter.stop", adapter.Stop); stopErr != nil {
			log.WithError(stopErr).Warn("Failed to stop BLE adapter")
		}
	}()

	r.progress(PhaseConnecting)
	var link transport.Link
	err = traced(ctx, "ble.connect", func() error {
		var cerr error
		link, cerr = adapter.Connect(r.address)
		return cerr
	})
	if err == nil && link == nil {
		err = errors.New("transport returned no connection")
	}
	if err != nil {
		return nil, r.fail(ConnectionFailed, err)
	}

	defer func() {
		if closeErr := link.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Failed to close BLE connection")
		}
	}()

	r.progress(PhaseReading)
	err = traced(ctx, "ble.read_characteristic", func() error {
		var rerr error
		value, rerr = link.ReadCharacteristic(r.charUUID)
		return rerr
	})
	if err != nil {
		return nil, r.fail(CharacteristicReadFailed, err)
	}

	log.WithFields(logrus.Fields{
		"value": hex.EncodeToString(value),
		"bytes": len(value),
	}).Info("Characteristic value read")

	return value, nil
}

func (r *Reader) fail(kind ErrorKind, err error) error {
	return &ReadError{
		Kind:           kind,
		Address:        r.address,
		Characteristic: r.charUUID,
		Err:            err,
	}
}

// traced runs fn inside a child span named name
func traced(ctx context.Context, name string, fn func() error) error {
	_, span := tracer.StartSpan(ctx, name)
	defer span.End()

	if err := fn(); err != nil {
		tracer.RecordError(span, err)
		return err
	}
	tracer.SetOK(span)
	return nil
}

func newReadID() string {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
