// Package transport defines the boundary between the characteristic reader and
// a BLE stack: start/stop an adapter session, connect to a device by address,
// and read a characteristic value by UUID from the open link.
//
// Nothing else of the stack is consumed here: no scanning, no writes, no
// notifications.
package transport
