package transport

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"

	"github.com/go-ble/ble"
)

const sigBaseSuffix = "00001000800000805f9b34fb"

// NormalizeUUID converts a UUID string to the comparison form used by go-ble:
// lowercase, no dashes, braces or 0x prefix. Full UUIDs built on the Bluetooth
// SIG base are reduced to their 16-bit short form.
func NormalizeUUID(uuid string) string {
	s := strings.ToLower(strings.TrimSpace(uuid))
	s = strings.TrimPrefix(s, "0x")
	s = strings.Trim(s, "{}")
	s = strings.ReplaceAll(s, "-", "")

	if len(s) == 32 && strings.HasSuffix(s, sigBaseSuffix) && strings.HasPrefix(s, "0000") {
		return s[4:8]
	}
	return s
}

// ValidateUUID checks that uuid is a well-formed 16-, 32- or 128-bit UUID and
// returns its normalized form.
func ValidateUUID(uuid string) (string, error) {
	if strings.TrimSpace(uuid) == "" {
		return "", fmt.Errorf("characteristic UUID cannot be empty")
	}
	normalized := NormalizeUUID(uuid)
	if _, err := ble.Parse(normalized); err != nil {
		return "", fmt.Errorf("invalid UUID format %q: %w", uuid, err)
	}
	return normalized, nil
}

// ValidateAddress checks that address is either a MAC-style BLE address (six
// colon-separated octets, as used by BlueZ/HCI) or a 128-bit peripheral UUID
// (as assigned by CoreBluetooth). It returns the address lowercased.
func ValidateAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("device address is empty")
	}
	if strings.Count(address, ":") == 5 {
		if hw, err := net.ParseMAC(address); err == nil && len(hw) == 6 {
			return strings.ToLower(address), nil
		}
	}
	if compact := strings.ReplaceAll(address, "-", ""); len(compact) == 32 {
		if _, err := hex.DecodeString(compact); err == nil {
			return strings.ToLower(address), nil
		}
	}
	return "", fmt.Errorf("invalid device address %q: want a MAC address (aa:bb:cc:dd:ee:ff) or a 128-bit peripheral UUID", address)
}
