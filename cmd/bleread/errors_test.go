package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srg/bleread/internal/reader"
	"github.com/srg/bleread/internal/transport"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"usage", errors.New("invalid output format: xml"), exitUsage},
		{"adapter", &reader.ReadError{Kind: reader.AdapterUnavailable, Err: transport.ErrBluetoothOff}, exitAdapterUnavailable},
		{"connect", &reader.ReadError{Kind: reader.ConnectionFailed, Err: transport.ErrTimeout}, exitConnectionFailed},
		{"read", &reader.ReadError{Kind: reader.CharacteristicReadFailed, Err: errors.New("att error")}, exitCharacteristicReadFailed},
		{"wrapped", fmt.Errorf("read: %w", &reader.ReadError{Kind: reader.ConnectionFailed}), exitConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestFormatUserError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint string
	}{
		{
			name:     "bluetooth off",
			err:      &reader.ReadError{Kind: reader.AdapterUnavailable, Err: transport.ErrBluetoothOff},
			wantHint: "is Bluetooth turned on?",
		},
		{
			name:     "unsupported platform",
			err:      &reader.ReadError{Kind: reader.AdapterUnavailable, Err: transport.ErrUnsupported},
			wantHint: "this platform has no supported BLE stack",
		},
		{
			name:     "connect timeout",
			err:      &reader.ReadError{Kind: reader.ConnectionFailed, Address: "aa:bb:cc:dd:ee:ff", Err: transport.ErrTimeout},
			wantHint: "is the device powered, in range and advertising?",
		},
		{
			name:     "not readable",
			err:      &reader.ReadError{Kind: reader.CharacteristicReadFailed, Err: transport.ErrUnsupported},
			wantHint: "the characteristic does not permit reads",
		},
		{
			name: "characteristic missing",
			err: &reader.ReadError{Kind: reader.CharacteristicReadFailed,
				Err: &transport.NotFoundError{Resource: "characteristic", UUID: "2a19"}},
			wantHint: "check the characteristic UUID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatUserError(tt.err)
			assert.Contains(t, got, tt.err.Error(), "MUST keep the original message")
			assert.Contains(t, got, tt.wantHint)
		})
	}

	t.Run("no hint", func(t *testing.T) {
		err := errors.New("invalid output format: xml")
		assert.Equal(t, err.Error(), FormatUserError(err))
	})
}
