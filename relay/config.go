/*
NAME
  config.go

DESCRIPTION
  config.go contains the configuration settings for an ARISR relay.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package relay

import (
	"github.com/pkg/errors"

	"github.com/ausocean/arisr/protocol/arisr"
	"github.com/ausocean/arisr/protocol/arisr/crypt"
	"github.com/ausocean/utils/logging"
)

// Enums to define outputs.
const (
	// Indicates no option has been set.
	NothingDefined = iota

	// Outputs.
	OutputUDP
	OutputFile
)

// Default config field values.
const (
	defaultInput            = "0.0.0.0:6780"
	defaultOutput           = OutputUDP
	defaultUDPAddress       = "255.255.255.255:6780"
	defaultPoolCapacity     = 1 << 20 // 1MiB.
	defaultPoolWriteTimeout = 5       // Seconds.
)

// Config provides parameters relevant to a relay instance. A new config
// must be passed to the constructor.
type Config struct {
	// Input is the address of form <ip>:<port> frames are received at.
	Input string

	// NetworkID is the 4-byte network identifier frames must carry; it is
	// also echoed on every forwarded frame.
	NetworkID [arisr.IDSize]byte

	// Key is the AES-128 session key shared by the segment. The zero value
	// is the null key used by unkeyed networks.
	Key crypt.Key

	// KeyFile optionally names a file holding the hex-encoded session key.
	// When set, the file is loaded at start and watched for changes so the
	// key can be rotated without restarting the relay.
	KeyFile string

	// RelayAddress is the address of this relay node, stamped into the
	// relay hop section of every forwarded frame.
	RelayAddress arisr.Addr

	// Outputs define the outputs we wish to forward frames to.
	//
	// Valid outputs are defined by enums:
	// OutputUDP:
	//		Forward to the segment defined by UDPAddress.
	// OutputFile:
	//		Write wire frames to timestamped files whose names begin with
	//		OutputPath.
	Outputs []uint8

	// UDPAddress defines the UDP forwarding destination.
	UDPAddress string

	// OutputPath defines the output destination for File output. This must
	// be defined if File output is to be used.
	OutputPath string

	// MaxFileSize is the maximum size in bytes a file will be written when
	// File output is used. A value of 0 means unlimited.
	MaxFileSize uint

	PoolCapacity     uint // The number of bytes the sender pool buffers will occupy.
	PoolWriteTimeout uint // The pool buffer write timeout in seconds.

	// Logger holds an implementation of the logging.Logger interface.
	// This must be set for the relay to work correctly.
	Logger logging.Logger
}

// Validate checks for any errors in the config fields and defaults
// settings if particular parameters have not been defined.
func (c *Config) Validate() error {
	if c.Logger == nil {
		return errors.New("no logger set in config")
	}

	if c.Input == "" {
		c.LogInvalidField("Input", defaultInput)
		c.Input = defaultInput
	}

	if c.RelayAddress == (arisr.Addr{}) {
		return errors.New("no relay address set in config")
	}

	if len(c.Outputs) == 0 {
		c.LogInvalidField("Outputs", "OutputUDP")
		c.Outputs = []uint8{defaultOutput}
	}

	for _, o := range c.Outputs {
		switch o {
		case OutputUDP:
			if c.UDPAddress == "" {
				c.LogInvalidField("UDPAddress", defaultUDPAddress)
				c.UDPAddress = defaultUDPAddress
			}
		case OutputFile:
			if c.OutputPath == "" {
				return errors.New("no output path set for file output")
			}
		default:
			return errors.Errorf("bad output type in config: %v", o)
		}
	}

	if c.PoolCapacity == 0 {
		c.LogInvalidField("PoolCapacity", defaultPoolCapacity)
		c.PoolCapacity = defaultPoolCapacity
	}

	if c.PoolWriteTimeout == 0 {
		c.LogInvalidField("PoolWriteTimeout", defaultPoolWriteTimeout)
		c.PoolWriteTimeout = defaultPoolWriteTimeout
	}

	return nil
}

// LogInvalidField logs the defaulting of a bad or unset config field.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
