/*
NAME
  encoder.go

DESCRIPTION
  encoder.go provides an io.Writer that wraps a byte stream into ARISR
  data frames and writes them to a destination.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package arisr

import (
	"io"

	"github.com/ausocean/arisr/protocol/arisr/crypt"
)

const (
	// sendSize is the plaintext chunk carried per frame. Padding adds at
	// most one cipher block, keeping the encrypted section comfortably
	// inside the data length field.
	sendSize = 15 * DataMult
)

// Encoder implements io.Writer and provides functionality to wrap data
// into ARISR frames.
type Encoder struct {
	dst          io.Writer
	key          crypt.Key
	id           [IDSize]byte
	origin       Addr
	destinationA Addr
	seqNo        uint8
	buffer       []byte
}

// NewEncoder returns a new Encoder given an io.Writer - the destination
// after encoding - along with the network id, session key and the
// addressing used on every frame.
func NewEncoder(dst io.Writer, key crypt.Key, id [IDSize]byte, origin, destinationA Addr) *Encoder {
	return &Encoder{
		dst:          dst,
		key:          key,
		id:           id,
		origin:       origin,
		destinationA: destinationA,
		buffer:       make([]byte, 0),
	}
}

// Write provides an interface between a prior encoder and this encoder,
// so that multiple layers of packetization can occur.
func (e *Encoder) Write(data []byte) (int, error) {
	e.buffer = append(e.buffer, data...)
	if len(e.buffer) < sendSize {
		return len(data), nil
	}
	buf := e.buffer
	for len(buf) != 0 {
		l := min(sendSize, len(buf))
		err := e.Encode(buf[:l])
		if err != nil {
			return len(data), err
		}
		buf = buf[l:]
	}
	e.buffer = e.buffer[:0]
	return len(data), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Encode wraps payload into a single ARISR data frame and writes the wire
// bytes to the io.Writer given in NewEncoder.
func (e *Encoder) Encode(payload []byte) error {
	f := Frame{
		ID:           e.id,
		Origin:       e.origin,
		DestinationA: e.destinationA,
		Ctrl: Ctrl{
			Sequence:   e.nxtSeqNo(),
			MoreHeader: true,
		},
		Data: payload,
	}
	d, err := Build(&f, e.key)
	if err != nil {
		return err
	}
	_, err = e.dst.Write(d)
	return err
}

// nxtSeqNo gets the next frame sequence number.
func (e *Encoder) nxtSeqNo() uint8 {
	e.seqNo++
	return e.seqNo - 1
}
