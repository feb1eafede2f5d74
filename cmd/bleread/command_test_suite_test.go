package main

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/srg/bleread/internal/testutils"
	"github.com/srg/bleread/internal/transport"
	"github.com/srg/bleread/pkg/config"
)

// Test device identity for consistent mock device configuration
const (
	TestDeviceAddress = "f0:08:d1:d5:0c:ae"
	TestCharUUID      = "ece27bad-3d4b-4072-8494-76a551f0b6cc"
)

// CommandTestSuite runs bleread commands against a mock transport.
// All cmd/bleread test suites embed it.
type CommandTestSuite struct {
	suite.Suite

	Transport                *testutils.MockTransport
	originalTransportFactory func(*config.Config, *logrus.Logger) transport.Factory
}

func (s *CommandTestSuite) SetupSuite() {
	s.originalTransportFactory = transportFactory
}

func (s *CommandTestSuite) TearDownSuite() {
	transportFactory = s.originalTransportFactory
}

// SetupTest installs a reachable device exposing 0x01 0x02 at the default characteristic
func (s *CommandTestSuite) SetupTest() {
	s.UseTransport(testutils.NewTransportBuilder(TestDeviceAddress).
		WithCharacteristic(TestCharUUID, []byte{0x01, 0x02}).
		Build())
}

// UseTransport routes subsequent commands through mt
func (s *CommandTestSuite) UseTransport(mt *testutils.MockTransport) {
	s.Transport = mt
	transportFactory = func(*config.Config, *logrus.Logger) transport.Factory {
		return mt.Factory()
	}
}

// ExecuteCommand runs a fresh root command with args and returns stdout, stderr and the error.
func (s *CommandTestSuite) ExecuteCommand(args ...string) (string, string, error) {
	cmd := newRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// WriteConfig writes a YAML config file in a temp dir and returns its path
func (s *CommandTestSuite) WriteConfig(content string) string {
	path := filepath.Join(s.T().TempDir(), "bleread.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600), "config file MUST be written")
	return path
}
