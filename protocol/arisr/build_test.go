/*
NAME
  build_test.go

DESCRIPTION
  build_test.go provides testing for behaviour of functionality in
  build.go.

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
	"bytes"
	"testing"

	"github.com/ausocean/arisr/protocol/arisr/crypt"
)

// buildSize returns the closed-form expected wire size of f, with encLen
// the encrypted data section length.
func buildSize(f *Frame, encLen int) int {
	size := minFrameSize + len(f.DestinationsB)*AddressSize
	if f.Ctrl.From {
		size += AddressSize
	}
	if f.Ctrl.MoreHeader {
		size += Ctrl2Size
		if encLen > 0 {
			size += encLen + CRCSize
		}
	}
	return size
}

// TestBuildShape checks the emitted frame length against the closed-form
// size expression for a variety of frame shapes, and that absent optional
// sections leave no slot on the wire.
func TestBuildShape(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Frame)
		encLen int
	}{
		{
			name:   "minimal",
			mutate: func(f *Frame) {},
		},
		{
			name: "destinations",
			mutate: func(f *Frame) {
				f.Ctrl.Destinations = 3
				f.DestinationsB = make([]Addr, 3)
				for i := range f.DestinationsB {
					f.DestinationsB[i] = Addr{byte(i + 3), 0, 0, 0, 0, 1}
				}
			},
		},
		{
			name: "relay",
			mutate: func(f *Frame) {
				f.Ctrl.From = true
				f.DestinationC = Addr{9, 9, 9, 9, 9, 9}
			},
		},
		{
			name: "header only ctrl2",
			mutate: func(f *Frame) {
				f.Ctrl.MoreHeader = true
				f.Ctrl2.Feature = 1
			},
		},
		{
			name: "data",
			mutate: func(f *Frame) {
				f.Ctrl.MoreHeader = true
				f.Data = bytes.Repeat([]byte{0xaa}, 16)
			},
			encLen: 32, // 16 bytes pad to two cipher blocks.
		},
	}

	for _, test := range tests {
		f := minimalFrame()
		test.mutate(f)
		d, err := Build(f, crypt.NullKey)
		if err != nil {
			t.Fatalf("unexpected error from Build for %v: %v", test.name, err)
		}
		expect := buildSize(f, test.encLen)
		if len(d) != expect {
			t.Errorf("unexpected length for %v. Got: %v\n Want: %v\n", test.name, len(d), expect)
		}

		// The trailing section must echo the id.
		if !bytes.Equal(d[len(d)-IDSize:], f.ID[:]) {
			t.Errorf("end section does not echo id for %v", test.name)
		}
	}
}

// TestBuildDataRequiresMoreHeader checks that the data section is only
// emitted when the more header bit is set.
func TestBuildDataRequiresMoreHeader(t *testing.T) {
	f := minimalFrame()
	f.Data = []byte{1, 2, 3, 4}
	d, err := Build(f, crypt.NullKey)
	if err != nil {
		t.Fatalf("unexpected error from Build: %v", err)
	}
	if len(d) != minFrameSize {
		t.Errorf("unexpected frame length. Got: %v\n Want: %v\n", len(d), minFrameSize)
	}
}

// TestBuildValidation checks the builder's argument validation errors.
func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Frame)
		expect error
	}{
		{
			name:   "null origin",
			mutate: func(f *Frame) { f.Origin = Addr{} },
			expect: ErrNullOrigin,
		},
		{
			name:   "null destination",
			mutate: func(f *Frame) { f.DestinationA = Addr{} },
			expect: ErrNullDestination,
		},
		{
			name:   "destination count",
			mutate: func(f *Frame) { f.Ctrl.Destinations = 2 },
			expect: ErrDestinationCount,
		},
		{
			name: "data too long",
			mutate: func(f *Frame) {
				f.Ctrl.MoreHeader = true
				f.Data = make([]byte, maxDataField*DataMult)
			},
			expect: ErrDataLength,
		},
	}

	for _, test := range tests {
		f := minimalFrame()
		test.mutate(f)
		_, err := Build(f, crypt.NullKey)
		if err != test.expect {
			t.Errorf("unexpected error for %v. Got: %v\n Want: %v\n", test.name, err, test.expect)
		}
	}

	_, err := Build(nil, crypt.NullKey)
	if err != ErrNilFrame {
		t.Errorf("unexpected error for nil frame. Got: %v\n Want: %v\n", err, ErrNilFrame)
	}
}

// TestPackSend checks that the stepwise Pack and Send pair emits bytes
// identical to Build.
func TestPackSend(t *testing.T) {
	frames := []*Frame{
		minimalFrame(),
		func() *Frame {
			f := minimalFrame()
			f.Ctrl.Destinations = 1
			f.DestinationsB = []Addr{{3, 3, 3, 3, 3, 3}}
			f.Ctrl.From = true
			f.DestinationC = Addr{9, 9, 9, 9, 9, 9}
			return f
		}(),
		func() *Frame {
			f := minimalFrame()
			f.Ctrl.MoreHeader = true
			f.Ctrl2 = Ctrl2{Feature: 0x0f, NegAnswer: true}
			f.Data = []byte("pack and send must agree with build")
			return f
		}(),
	}

	key := crypt.Key{0x0f: 0x01}
	for i, f := range frames {
		want, err := Build(f, key)
		if err != nil {
			t.Fatalf("unexpected error from Build for frame %v: %v", i, err)
		}

		raw, err := Pack(f, key)
		if err != nil {
			t.Fatalf("unexpected error from Pack for frame %v: %v", i, err)
		}
		got, err := Send(raw)
		if err != nil {
			t.Fatalf("unexpected error from Send for frame %v: %v", i, err)
		}

		if !bytes.Equal(got, want) {
			t.Errorf("stepwise encode differs from Build for frame %v.\nGot: %v\nWant: %v\n", i, got, want)
		}

		// Send must have stored the header CRC back into the raw frame.
		off := len(want) - IDSize - CRCSize
		if len(raw.Data) > 0 {
			off -= len(raw.Data) + CRCSize
		}
		if !bytes.Equal(raw.CRCHeader[:], want[off:off+CRCSize]) {
			t.Errorf("header CRC not stored for frame %v", i)
		}
	}
}

// TestBuildCRCSensitivity checks that flipping any single bit of a built
// frame causes Parse to fail.
func TestBuildCRCSensitivity(t *testing.T) {
	f := minimalFrame()
	f.Ctrl.Destinations = 1
	f.DestinationsB = []Addr{{3, 3, 3, 3, 3, 3}}
	f.Ctrl.MoreHeader = true
	f.Data = []byte{0xde, 0xad, 0xbe, 0xef}

	d, err := Build(f, crypt.NullKey)
	if err != nil {
		t.Fatalf("unexpected error from Build: %v", err)
	}

	for i := range d {
		for bit := uint(0); bit < 8; bit++ {
			d[i] ^= 1 << bit
			_, err := Parse(d, crypt.NullKey, testID)
			if err == nil {
				t.Errorf("parse succeeded after flipping bit %v of byte %v", bit, i)
			}
			d[i] ^= 1 << bit
		}
	}
}
