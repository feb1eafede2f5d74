package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/srg/bleread/internal/bledb"
	"github.com/srg/bleread/internal/reader"
	"github.com/srg/bleread/internal/tracer"
	"github.com/srg/bleread/internal/transport"
	"github.com/srg/bleread/internal/transport/goble"
	"github.com/srg/bleread/pkg/config"
)

// transportFactory creates the BLE transport for a read (can be overridden in tests)
var transportFactory = func(cfg *config.Config, logger *logrus.Logger) transport.Factory {
	return goble.NewFactory(goble.Options{ConnectTimeout: cfg.ConnectTimeout}, logger)
}

// readOutput is the --format json document
type readOutput struct {
	Address        string `json:"address"`
	Characteristic string `json:"characteristic"`
	Name           string `json:"name,omitempty"`
	Value          string `json:"value"`
	Length         int    `json:"length"`
	Decoded        any    `json:"decoded,omitempty"`
}

func newReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read the configured characteristic once",
		Long: fmt.Sprintf(`Starts the BLE adapter, connects to the configured device, reads the
configured characteristic, disconnects and writes the value to stdout.

Device and characteristic come from the configuration file (--config) and
may be overridden with --address and --char.

Examples:
  # Read the default device and characteristic
  bleread read

  # Read another device, print as hex
  bleread read --address %s --char 2a19 --format hex

  # Machine-readable output with a span trace on stderr
  bleread read --format json --trace stdout

%s`, exampleDeviceAddress, deviceAddressNote),
		Args: cobra.NoArgs,
		RunE: runRead,
	}

	cmd.Flags().String("address", "", "Device address (overrides device_address)")
	cmd.Flags().String("char", "", "Characteristic UUID (overrides characteristic_uuid)")
	cmd.Flags().String("format", "", "Output format: raw, hex, or json; hex on a terminal, raw otherwise")
	cmd.Flags().Duration("connect-timeout", 0, "Transport connect timeout (overrides connect_timeout)")
	cmd.Flags().String("trace", "", "Export OpenTelemetry spans to stderr: stdout or noop")
	cmd.Flags().Bool("progress", false, "Show a progress line on stderr")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")

	return cmd
}

func runRead(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyReadFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := configureLogger(cmd, cfg, "verbose")
	if err != nil {
		return err
	}

	// All arguments validated - don't show usage on runtime errors
	cmd.SilenceUsage = true

	shutdown, err := tracer.Setup(cfg.Tracer, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.WithError(err).Warn("failed to flush traces")
		}
	}()

	opts := reader.Options{
		Address:            cfg.DeviceAddress,
		CharacteristicUUID: cfg.CharacteristicUUID,
	}

	if showProgress, _ := cmd.Flags().GetBool("progress"); showProgress {
		progress := NewProgressPrinter(cmd.ErrOrStderr(),
			fmt.Sprintf("Reading %s from %s", cfg.CharacteristicUUID, cfg.DeviceAddress),
			reader.PhaseStarting, reader.PhaseDone, reader.PhaseFailed)
		progress.Start()
		defer progress.Stop()
		opts.Progress = progress.Callback()
	}

	r, err := reader.New(opts, transportFactory(cfg, logger), logger)
	if err != nil {
		return err
	}

	start := time.Now()
	value, err := r.ReadCharacteristicValue()
	if err != nil {
		return err
	}
	logger.WithField("elapsed", time.Since(start)).Debug("Read completed")

	return writeValue(cmd.OutOrStdout(), cfg.OutputFormat, r, value, logger)
}

// applyReadFlags overlays explicitly set flags onto cfg
func applyReadFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("address") {
		cfg.DeviceAddress, _ = flags.GetString("address")
	}
	if flags.Changed("char") {
		cfg.CharacteristicUUID, _ = flags.GetString("char")
	}
	if flags.Changed("format") {
		cfg.OutputFormat, _ = flags.GetString("format")
	}
	if flags.Changed("connect-timeout") {
		cfg.ConnectTimeout, _ = flags.GetDuration("connect-timeout")
	}
	if flags.Changed("trace") {
		exporter, _ := flags.GetString("trace")
		cfg.Tracer.Enabled = true
		cfg.Tracer.Exporter = exporter
	}
}

// writeValue formats the value r read according to format
func writeValue(w io.Writer, format string, r *reader.Reader, value []byte, logger *logrus.Logger) error {
	if format == "" {
		format = config.FormatRaw
		if isTerminal(w) {
			format = config.FormatHex
		}
	}

	switch format {
	case config.FormatHex:
		_, err := fmt.Fprintln(w, hex.EncodeToString(value))
		return err
	case config.FormatJSON:
		charUUID := r.CharacteristicUUID()
		out := readOutput{
			Address:        r.Address(),
			Characteristic: charUUID,
			Name:           bledb.LookupCharacteristic(charUUID),
			Value:          hex.EncodeToString(value),
			Length:         len(value),
		}
		if bledb.IsParsable(charUUID) {
			decoded, err := bledb.DecodeValue(charUUID, value)
			if err != nil {
				logger.WithError(err).Debug("Value does not match the characteristic's assigned format")
			}
			out.Decoded = decoded
		}
		return json.NewEncoder(w).Encode(out)
	default:
		_, err := w.Write(value)
		return err
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
