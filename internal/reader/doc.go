// Package reader connects to one BLE peripheral, reads one GATT characteristic
// and disconnects.
//
// Every call to ReadCharacteristicValue owns a fresh transport adapter. Once
// the adapter has started it is stopped exactly once before the call returns,
// whatever the outcome. Calls are serialized process-wide because the host
// radio supports one session at a time.
package reader
