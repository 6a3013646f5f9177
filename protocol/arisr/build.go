/*
NAME
  build.go

DESCRIPTION
  build.go provides functionality for serializing ARISR frames: Build for
  the single-pass encode of a Frame into wire bytes, and the stepwise Pack
  and Send pair which split the same work at the raw frame boundary. The
  CRC sections are computed at emission, so Pack leaves them zero and Send
  fills them in.

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
	"encoding/binary"

	"github.com/ausocean/arisr/protocol/arisr/crc16"
	"github.com/ausocean/arisr/protocol/arisr/crypt"
)

// Build serializes f into a new wire buffer. The aris tag and data
// section are encrypted under key, both CRC sections are computed, and
// the network id is echoed as the trailing end section. A zero f.Aris
// builds as ArisText. The data section is emitted only when
// f.Ctrl.MoreHeader is set and f.Data is non-empty.
func Build(f *Frame, key crypt.Key) ([]byte, error) {
	if f == nil {
		return nil, ErrNilFrame
	}
	if f.Origin == zeroAddr {
		return nil, ErrNullOrigin
	}
	if f.DestinationA == zeroAddr {
		return nil, ErrNullDestination
	}
	if len(f.DestinationsB) != int(f.Ctrl.Destinations) {
		return nil, ErrDestinationCount
	}

	// Compute the frame size, encrypting the data section now so that its
	// emitted length is known.
	size := minFrameSize + len(f.DestinationsB)*AddressSize
	if f.Ctrl.From {
		size += AddressSize
	}
	var enc []byte
	if f.Ctrl.MoreHeader {
		size += Ctrl2Size
		if len(f.Data) > 0 {
			var err error
			enc, err = crypt.EncryptData(key, f.Data)
			if err != nil {
				return nil, err
			}
			if len(enc)%DataMult != 0 || len(enc)/DataMult > maxDataField {
				return nil, ErrDataLength
			}
			size += len(enc) + CRCSize
		}
	}

	out := make([]byte, size)
	copy(out, f.ID[:])
	aris := f.Aris
	if aris == ([ArisSize]byte{}) {
		aris = ArisText
	}
	copy(out[IDSize:], aris[:])
	err := crypt.EncryptAris(key, out[IDSize:CryptSize])
	if err != nil {
		return nil, err
	}

	packCtrl(f.Ctrl, out[CryptSize:CryptSize+CtrlSize])
	p := CryptSize + CtrlSize
	copy(out[p:], f.Origin[:])
	p += AddressSize
	copy(out[p:], f.DestinationA[:])
	p += AddressSize
	for _, a := range f.DestinationsB {
		copy(out[p:], a[:])
		p += AddressSize
	}
	if f.Ctrl.From {
		copy(out[p:], f.DestinationC[:])
		p += AddressSize
	}
	if f.Ctrl.MoreHeader {
		packCtrl2(f.Ctrl2, uint8(len(enc)/DataMult), out[p:p+Ctrl2Size])
		p += Ctrl2Size
	}

	binary.BigEndian.PutUint16(out[p:], crc16.Checksum(out[:p]))
	p += CRCSize

	if len(enc) > 0 {
		copy(out[p:], enc)
		binary.BigEndian.PutUint16(out[p+len(enc):], crc16.Checksum(enc))
		p += len(enc) + CRCSize
	}

	copy(out[p:], f.ID[:])
	return out, nil
}

// Pack wraps f into a new RawFrame ready for Send, packing the control
// words and encrypting the aris tag and data section under key. The CRC
// sections are not computed here; Send fills them in at emission.
func Pack(f *Frame, key crypt.Key) (*RawFrame, error) {
	if f == nil {
		return nil, ErrNilFrame
	}
	if f.Origin == zeroAddr {
		return nil, ErrNullOrigin
	}
	if f.DestinationA == zeroAddr {
		return nil, ErrNullDestination
	}
	if len(f.DestinationsB) != int(f.Ctrl.Destinations) {
		return nil, ErrDestinationCount
	}

	r := &RawFrame{
		ID:           f.ID,
		Origin:       f.Origin,
		DestinationA: f.DestinationA,
		End:          f.ID,
	}

	r.Aris = f.Aris
	if r.Aris == ([ArisSize]byte{}) {
		r.Aris = ArisText
	}
	err := crypt.EncryptAris(key, r.Aris[:])
	if err != nil {
		return nil, err
	}

	packCtrl(f.Ctrl, r.Ctrl[:])

	if len(f.DestinationsB) > 0 {
		r.DestinationsB = make([]byte, len(f.DestinationsB)*AddressSize)
		for i, a := range f.DestinationsB {
			copy(r.DestinationsB[i*AddressSize:], a[:])
		}
	}
	if f.Ctrl.From {
		r.DestinationC = make([]byte, AddressSize)
		copy(r.DestinationC, f.DestinationC[:])
	}

	if f.Ctrl.MoreHeader {
		var enc []byte
		if len(f.Data) > 0 {
			enc, err = crypt.EncryptData(key, f.Data)
			if err != nil {
				return nil, err
			}
			if len(enc)%DataMult != 0 || len(enc)/DataMult > maxDataField {
				return nil, ErrDataLength
			}
			r.Data = enc
		}
		r.Ctrl2 = make([]byte, Ctrl2Size)
		packCtrl2(f.Ctrl2, uint8(len(enc)/DataMult), r.Ctrl2)
	}

	return r, nil
}

// Send serializes a packed RawFrame into a new wire buffer, computing
// both CRC sections and storing them back into r. The output is
// byte-identical to Build of the frame r was packed from.
func Send(r *RawFrame) ([]byte, error) {
	if r == nil {
		return nil, ErrNilFrame
	}

	size := minFrameSize + len(r.DestinationsB) + len(r.DestinationC) + len(r.Ctrl2)
	if len(r.Data) > 0 {
		size += len(r.Data) + CRCSize
	}

	out := make([]byte, size)
	copy(out, r.ID[:])
	copy(out[IDSize:], r.Aris[:])
	copy(out[CryptSize:], r.Ctrl[:])
	p := CryptSize + CtrlSize
	copy(out[p:], r.Origin[:])
	p += AddressSize
	copy(out[p:], r.DestinationA[:])
	p += AddressSize
	copy(out[p:], r.DestinationsB)
	p += len(r.DestinationsB)
	copy(out[p:], r.DestinationC)
	p += len(r.DestinationC)
	copy(out[p:], r.Ctrl2)
	p += len(r.Ctrl2)

	binary.BigEndian.PutUint16(r.CRCHeader[:], crc16.Checksum(out[:p]))
	copy(out[p:], r.CRCHeader[:])
	p += CRCSize

	if len(r.Data) > 0 {
		copy(out[p:], r.Data)
		binary.BigEndian.PutUint16(r.CRCData[:], crc16.Checksum(r.Data))
		copy(out[p+len(r.Data):], r.CRCData[:])
		p += len(r.Data) + CRCSize
	}

	copy(out[p:], r.End[:])
	return out, nil
}
