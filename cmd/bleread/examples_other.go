//go:build !darwin

package main

const (
	exampleDeviceAddress = "f0:08:d1:d5:0c:ae"
	deviceAddressNote    = "Device address format: MAC address, six colon-separated octets\n  Example: f0:08:d1:d5:0c:ae"
)
