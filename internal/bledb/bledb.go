// Package bledb names well-known GATT characteristics and decodes the values
// of the ones with a simple, fixed layout.
package bledb

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/srg/bleread/internal/transport"
)

// Well-known GATT characteristic UUIDs (16-bit short form, normalized)
const (
	CharacteristicDeviceName       = "2a00"
	CharacteristicAppearance       = "2a01"
	CharacteristicBatteryLevel     = "2a19"
	CharacteristicSystemID         = "2a23"
	CharacteristicModelNumber      = "2a24"
	CharacteristicSerialNumber     = "2a25"
	CharacteristicFirmwareRevision = "2a26"
	CharacteristicHardwareRevision = "2a27"
	CharacteristicSoftwareRevision = "2a28"
	CharacteristicManufacturerName = "2a29"
	CharacteristicTemperature      = "2a6e"
	CharacteristicHumidity         = "2a6f"
)

// ValueParser decodes a raw characteristic value
type ValueParser func([]byte) (any, error)

type entry struct {
	name  string
	parse ValueParser
}

var characteristics = map[string]entry{
	CharacteristicDeviceName:       {"Device Name", parseUTF8},
	CharacteristicAppearance:       {"Appearance", parseUint16},
	CharacteristicBatteryLevel:     {"Battery Level", parseBatteryLevel},
	CharacteristicSystemID:         {"System ID", nil},
	CharacteristicModelNumber:      {"Model Number String", parseUTF8},
	CharacteristicSerialNumber:     {"Serial Number String", parseUTF8},
	CharacteristicFirmwareRevision: {"Firmware Revision String", parseUTF8},
	CharacteristicHardwareRevision: {"Hardware Revision String", parseUTF8},
	CharacteristicSoftwareRevision: {"Software Revision String", parseUTF8},
	CharacteristicManufacturerName: {"Manufacturer Name String", parseUTF8},
	CharacteristicTemperature:      {"Temperature", parseHundredths},
	CharacteristicHumidity:         {"Humidity", parseUnsignedHundredths},
}

// LookupCharacteristic returns the assigned name of a characteristic, or ""
// when uuid is not a well-known characteristic.
func LookupCharacteristic(uuid string) string {
	return characteristics[transport.NormalizeUUID(uuid)].name
}

// IsParsable reports whether DecodeValue understands values of uuid
func IsParsable(uuid string) bool {
	return characteristics[transport.NormalizeUUID(uuid)].parse != nil
}

// DecodeValue decodes value according to the characteristic's assigned format.
// Returns (nil, nil) for characteristics without a known format and for empty values.
func DecodeValue(uuid string, value []byte) (any, error) {
	e, ok := characteristics[transport.NormalizeUUID(uuid)]
	if !ok || e.parse == nil || len(value) == 0 {
		return nil, nil
	}
	decoded, err := e.parse(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}
	return decoded, nil
}

func parseUTF8(value []byte) (any, error) {
	if !utf8.Valid(value) {
		return nil, fmt.Errorf("value is not valid UTF-8")
	}
	return string(value), nil
}

func parseBatteryLevel(value []byte) (any, error) {
	if len(value) != 1 {
		return nil, fmt.Errorf("battery level must be 1 byte, got %d", len(value))
	}
	if value[0] > 100 {
		return nil, fmt.Errorf("battery level %d out of range 0-100", value[0])
	}
	return int(value[0]), nil
}

func parseUint16(value []byte) (any, error) {
	if len(value) != 2 {
		return nil, fmt.Errorf("value must be 2 bytes, got %d", len(value))
	}
	return int(binary.LittleEndian.Uint16(value)), nil
}

// parseHundredths decodes a signed little-endian sint16 in units of 0.01
func parseHundredths(value []byte) (any, error) {
	if len(value) != 2 {
		return nil, fmt.Errorf("value must be 2 bytes, got %d", len(value))
	}
	return float64(int16(binary.LittleEndian.Uint16(value))) / 100, nil
}

func parseUnsignedHundredths(value []byte) (any, error) {
	if len(value) != 2 {
		return nil, fmt.Errorf("value must be 2 bytes, got %d", len(value))
	}
	return float64(binary.LittleEndian.Uint16(value)) / 100, nil
}
