/*
NAME
  arisr.go

DESCRIPTION
  arisr.go provides the data structures used to describe ARISR frames in
  both their on-wire and decoded forms, along with the protocol section
  sizes and the errors returned by frame operations.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package arisr provides a data structure intended to encapsulate the
// properties of an ARISR link-layer frame and also functions to parse
// and build the wire form of these frames.
package arisr

import (
	"errors"
)

// Section sizes of an ARISR frame in bytes.
const (
	IDSize      = 4 // Size of the network id section.
	ArisSize    = 4 // Size of the aris tag section.
	CryptSize   = IDSize + ArisSize
	AddressSize = 6 // Size of an ARISR address.
	CtrlSize    = 4 // Size of the first control word.
	Ctrl2Size   = 4 // Size of the second control word.
	CRCSize     = 2 // Size of a CRC section.

	// DataMult scales the on-wire data length field; the field value
	// multiplied by DataMult gives the byte length of the data section.
	DataMult = 16

	// minFrameSize is the length of a frame holding no optional section:
	// id, aris, ctrl, origin, destination A, header CRC and end.
	minFrameSize = CryptSize + CtrlSize + 2*AddressSize + CRCSize + IDSize

	// MaxFrameSize is the length of a frame with every optional section at
	// its largest; the destination count and data length fields bound the
	// variable sections.
	MaxFrameSize = minFrameSize + maxDestinations*AddressSize + AddressSize +
		Ctrl2Size + maxDataField*DataMult + CRCSize

	maxDestinations = 0x0f // Widest value of the ctrl destinations field.
	maxDataField    = 0xff // Widest value of the ctrl2 data length field.
)

// ArisText is the in-clear value of the aris tag section. The tag is
// transmitted encrypted under the session key.
var ArisText = [ArisSize]byte{'A', 'R', 'I', 'S'}

// Errors returned by frame operations.
var (
	ErrNilFrame         = errors.New("frame is nil")
	ErrShortBuffer      = errors.New("buffer too short to hold frame")
	ErrIDMismatch       = errors.New("id does not match expected network id")
	ErrArisMismatch     = errors.New("aris tag could not be verified")
	ErrHeaderCRC        = errors.New("header CRC mismatch")
	ErrDataCRC          = errors.New("data CRC mismatch")
	ErrEndMismatch      = errors.New("end does not match expected network id")
	ErrNullOrigin       = errors.New("origin address is unset")
	ErrNullDestination  = errors.New("destination address is unset")
	ErrDestinationCount = errors.New("destination count does not match control field")
	ErrDataLength       = errors.New("data section too long to encode")
)

// Addr is a 6-byte ARISR node address.
type Addr [AddressSize]byte

var zeroAddr Addr

// Ctrl holds the unpacked fields of the first control word.
type Ctrl struct {
	Version      uint8 // Protocol version.
	Destinations uint8 // Number of additional destination addresses carried.
	From         bool  // Relay indicator; a relay address follows the destinations.
	Option       uint8 // Option bits.
	Sequence     uint8 // Frame sequence number.
	Retry        uint8 // Retry count.
	MoreData     bool  // More data follows in a subsequent frame.
	Identifier   uint8 // Frame identifier.
	MoreHeader   bool  // A second control word follows the addressing sections.
}

// Ctrl2 holds the unpacked fields of the second control word. All fields
// are zero when Ctrl.MoreHeader is false.
type Ctrl2 struct {
	// DataLength is the byte length of the data section. On the wire the
	// field carries this length divided by DataMult; in a parsed frame it
	// is the plaintext length of Data.
	DataLength uint16

	Feature    uint8 // Feature bits.
	NegAnswer  bool  // Negative answer indicator.
	FreqSwitch bool  // Frequency switch request.
}

// Frame describes a fully decoded ARISR frame: control words unpacked and
// the data section in plaintext.
type Frame struct {
	ID            [IDSize]byte   // Network identifier.
	Aris          [ArisSize]byte // In-clear aris tag.
	Ctrl          Ctrl           // First control word, unpacked.
	Origin        Addr           // Address of the originating node.
	DestinationA  Addr           // Primary destination address.
	DestinationsB []Addr         // Additional destination addresses.
	DestinationC  Addr           // Relay address, zero unless Ctrl.From.
	Ctrl2         Ctrl2          // Second control word, unpacked.
	CRCHeader     uint16         // Header CRC as read from the wire.
	CRCData       uint16         // Data CRC as read from the wire.
	Data          []byte         // Plaintext data section.
	End           [IDSize]byte   // Trailing copy of the network id.
}

// Clear resets f, dropping the destination and data sections. It is safe
// to call repeatedly.
func (f *Frame) Clear() error {
	if f == nil {
		return ErrNilFrame
	}
	*f = Frame{}
	return nil
}

// RawFrame describes an ARISR frame in its on-wire layout: control words
// still packed and the data section still encrypted. Optional sections are
// nil when absent.
type RawFrame struct {
	ID            [IDSize]byte   // Network identifier.
	Aris          [ArisSize]byte // Aris tag; in-clear once received, encrypted once packed.
	Ctrl          [CtrlSize]byte // First control word, packed.
	Origin        Addr           // Address of the originating node.
	DestinationA  Addr           // Primary destination address.
	DestinationsB []byte         // Additional destination addresses, AddressSize bytes each.
	DestinationC  []byte         // Relay address, nil when the from bit is clear.
	Ctrl2         []byte         // Second control word, nil when the more header bit is clear.
	CRCHeader     [CRCSize]byte  // Header CRC.
	Data          []byte         // Encrypted data section.
	CRCData       [CRCSize]byte  // Data CRC, meaningful only when Data is non-empty.
	End           [IDSize]byte   // Trailing copy of the network id.
}

// Clear resets r, dropping all owned sections. It is safe to call
// repeatedly.
func (r *RawFrame) Clear() error {
	if r == nil {
		return ErrNilFrame
	}
	*r = RawFrame{}
	return nil
}
