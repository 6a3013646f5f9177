/*
NAME
  client.go

DESCRIPTION
  client.go provides an ARISR client for receiving frames over UDP.

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
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/ausocean/arisr/protocol/arisr/crypt"
)

// Client describes an ARISR client that can receive a stream of frames
// from a network segment.
type Client struct {
	r        *PacketReader
	id       [IDSize]byte
	mu       sync.Mutex
	key      crypt.Key
	sequence uint8
	cycles   uint16
}

// NewClient returns a pointer to a new Client.
//
// addr is the address of form <ip>:<port> that we expect to receive
// frames at, id is the network id frames must carry, and key is the
// session key used to recover the aris tag and data sections.
func NewClient(addr string, key crypt.Key, id [IDSize]byte) (*Client, error) {
	c := &Client{r: &PacketReader{}, key: key, id: id}

	a, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	c.r.PacketConn, err = net.ListenUDP("udp", a)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Recv reads the next datagram from the segment and parses it into a
// Frame, updating the sequence tracking on success.
func (c *Client) Recv() (*Frame, error) {
	var buf [MaxFrameSize]byte
	n, err := c.r.Read(buf[:])
	if err != nil {
		return nil, err
	}
	f, err := Parse(buf[:n], c.Key(), c.id)
	if err != nil {
		return nil, err
	}
	c.setSequence(f.Ctrl.Sequence)
	return f, nil
}

// Key returns the session key currently in use.
func (c *Client) Key() crypt.Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}

// SetKey replaces the session key used for subsequent receives.
func (c *Client) SetKey(k crypt.Key) {
	c.mu.Lock()
	c.key = k
	c.mu.Unlock()
}

// Close will close the client's connection.
func (c *Client) Close() error {
	return c.r.PacketConn.Close()
}

// setSequence sets the most recently received sequence number, and
// updates the cycles count if the sequence number has rolled over.
func (c *Client) setSequence(s uint8) {
	c.mu.Lock()
	if s < c.sequence {
		c.cycles++
	}
	c.sequence = s
	c.mu.Unlock()
}

// Sequence returns the most recent frame sequence number received.
func (c *Client) Sequence() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sequence
}

// Cycles returns the number of sequence number cycles that have been
// received.
func (c *Client) Cycles() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycles
}

// PacketReader provides an io.Reader interface to an underlying UDP
// PacketConn.
type PacketReader struct {
	net.PacketConn
}

// Read implements io.Reader.
func (r PacketReader) Read(b []byte) (int, error) {
	const readTimeout = 5 * time.Second
	err := r.PacketConn.SetReadDeadline(time.Now().Add(readTimeout))
	if err != nil {
		return 0, fmt.Errorf("could not set read deadline for PacketConn: %w", err)
	}
	n, _, err := r.PacketConn.ReadFrom(b)
	return n, err
}
