/*
NAME
  parse.go

DESCRIPTION
  parse.go provides functionality for parsing ARISR frames: Parse for the
  single-pass decode of wire bytes into a Frame, and the stepwise Recv and
  Unpack pair which split the same work at the raw frame boundary.

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

// Parse decodes the wire bytes d into a new Frame. The leading id section
// must equal id, and key must recover the aris tag and data section. Both
// CRC windows are verified: the header CRC over every byte preceding it,
// and the data CRC over the encrypted data section alone. On any error
// the returned frame is nil, so no partially decoded frame is reachable.
func Parse(d []byte, key crypt.Key, id [IDSize]byte) (*Frame, error) {
	if len(d) < minFrameSize {
		return nil, ErrShortBuffer
	}

	f := &Frame{}
	copy(f.ID[:], d[:IDSize])
	if f.ID != id {
		return nil, ErrIDMismatch
	}

	copy(f.Aris[:], d[IDSize:CryptSize])
	err := crypt.DecryptAris(key, f.Aris[:])
	if err != nil {
		return nil, err
	}
	if f.Aris != ArisText {
		return nil, ErrArisMismatch
	}

	f.Ctrl = unpackCtrl(d[CryptSize : CryptSize+CtrlSize])
	p := CryptSize + CtrlSize
	copy(f.Origin[:], d[p:p+AddressSize])
	p += AddressSize
	copy(f.DestinationA[:], d[p:p+AddressSize])
	p += AddressSize

	if n := int(f.Ctrl.Destinations); n > 0 {
		if len(d) < p+n*AddressSize {
			return nil, ErrShortBuffer
		}
		f.DestinationsB = make([]Addr, n)
		for i := range f.DestinationsB {
			copy(f.DestinationsB[i][:], d[p:p+AddressSize])
			p += AddressSize
		}
	}

	if f.Ctrl.From {
		if len(d) < p+AddressSize {
			return nil, ErrShortBuffer
		}
		copy(f.DestinationC[:], d[p:p+AddressSize])
		p += AddressSize
	}

	if f.Ctrl.MoreHeader {
		if len(d) < p+Ctrl2Size {
			return nil, ErrShortBuffer
		}
		f.Ctrl2 = unpackCtrl2(d[p : p+Ctrl2Size])
		p += Ctrl2Size
	}

	// The header CRC covers every byte up to but excluding itself.
	if len(d) < p+CRCSize {
		return nil, ErrShortBuffer
	}
	f.CRCHeader = binary.BigEndian.Uint16(d[p:])
	if crc16.Checksum(d[:p]) != f.CRCHeader {
		return nil, ErrHeaderCRC
	}
	p += CRCSize

	if f.Ctrl.MoreHeader && f.Ctrl2.DataLength > 0 {
		l := int(f.Ctrl2.DataLength)
		if len(d) < p+l+CRCSize {
			return nil, ErrShortBuffer
		}
		f.CRCData = binary.BigEndian.Uint16(d[p+l:])
		if crc16.Checksum(d[p:p+l]) != f.CRCData {
			return nil, ErrDataCRC
		}
		f.Data, err = crypt.DecryptData(key, d[p:p+l])
		if err != nil {
			return nil, err
		}
		f.Ctrl2.DataLength = uint16(len(f.Data))
		p += l + CRCSize
	}

	if len(d) < p+IDSize {
		return nil, ErrShortBuffer
	}
	copy(f.End[:], d[p:p+IDSize])
	if f.End != id {
		return nil, ErrEndMismatch
	}

	return f, nil
}

// Recv decodes the wire bytes d into a new RawFrame, separating the
// protocol sections and verifying the id, aris tag, both CRC windows and
// the trailing id. The control words stay packed and the data section
// stays encrypted; Unpack completes the decode.
func Recv(d []byte, key crypt.Key, id [IDSize]byte) (*RawFrame, error) {
	if len(d) < minFrameSize {
		return nil, ErrShortBuffer
	}

	r := &RawFrame{}
	copy(r.ID[:], d[:IDSize])
	if r.ID != id {
		return nil, ErrIDMismatch
	}

	copy(r.Aris[:], d[IDSize:CryptSize])
	err := crypt.DecryptAris(key, r.Aris[:])
	if err != nil {
		return nil, err
	}
	if r.Aris != ArisText {
		return nil, ErrArisMismatch
	}

	copy(r.Ctrl[:], d[CryptSize:CryptSize+CtrlSize])
	p := CryptSize + CtrlSize
	copy(r.Origin[:], d[p:p+AddressSize])
	p += AddressSize
	copy(r.DestinationA[:], d[p:p+AddressSize])
	p += AddressSize

	if n := int(ctrlField(r.Ctrl[:], ctrlDestinationsMask, ctrlDestinationsShift)); n > 0 {
		if len(d) < p+n*AddressSize {
			return nil, ErrShortBuffer
		}
		r.DestinationsB = make([]byte, n*AddressSize)
		copy(r.DestinationsB, d[p:])
		p += n * AddressSize
	}

	if ctrlField(r.Ctrl[:], ctrlFromMask, ctrlFromShift) != 0 {
		if len(d) < p+AddressSize {
			return nil, ErrShortBuffer
		}
		r.DestinationC = make([]byte, AddressSize)
		copy(r.DestinationC, d[p:])
		p += AddressSize
	}

	var dataLen int
	if ctrlField(r.Ctrl[:], ctrlMoreHeaderMask, ctrlMoreHeaderShift) != 0 {
		if len(d) < p+Ctrl2Size {
			return nil, ErrShortBuffer
		}
		r.Ctrl2 = make([]byte, Ctrl2Size)
		copy(r.Ctrl2, d[p:])
		p += Ctrl2Size
		dataLen = int(ctrlField(r.Ctrl2, ctrl2DataLengthMask, ctrl2DataLengthShift)) * DataMult
	}

	if len(d) < p+CRCSize {
		return nil, ErrShortBuffer
	}
	copy(r.CRCHeader[:], d[p:p+CRCSize])
	if crc16.Checksum(d[:p]) != binary.BigEndian.Uint16(r.CRCHeader[:]) {
		return nil, ErrHeaderCRC
	}
	p += CRCSize

	if dataLen > 0 {
		if len(d) < p+dataLen+CRCSize {
			return nil, ErrShortBuffer
		}
		copy(r.CRCData[:], d[p+dataLen:])
		if crc16.Checksum(d[p:p+dataLen]) != binary.BigEndian.Uint16(r.CRCData[:]) {
			return nil, ErrDataCRC
		}
		r.Data = make([]byte, dataLen)
		copy(r.Data, d[p:])
		p += dataLen + CRCSize
	}

	if len(d) < p+IDSize {
		return nil, ErrShortBuffer
	}
	copy(r.End[:], d[p:p+IDSize])
	if r.End != id {
		return nil, ErrEndMismatch
	}

	return r, nil
}

// Unpack completes the decode of a received RawFrame, unpacking the
// control words and decrypting the data section with key. The raw frame
// is left unchanged; the returned Frame owns no memory in common with it.
func Unpack(r *RawFrame, key crypt.Key) (*Frame, error) {
	if r == nil {
		return nil, ErrNilFrame
	}

	f := &Frame{
		ID:           r.ID,
		Aris:         r.Aris,
		Ctrl:         unpackCtrl(r.Ctrl[:]),
		Origin:       r.Origin,
		DestinationA: r.DestinationA,
		CRCHeader:    binary.BigEndian.Uint16(r.CRCHeader[:]),
		End:          r.End,
	}

	if n := len(r.DestinationsB) / AddressSize; n > 0 {
		f.DestinationsB = make([]Addr, n)
		for i := range f.DestinationsB {
			copy(f.DestinationsB[i][:], r.DestinationsB[i*AddressSize:])
		}
	}
	copy(f.DestinationC[:], r.DestinationC)

	if r.Ctrl2 != nil {
		f.Ctrl2 = unpackCtrl2(r.Ctrl2)
	}

	if len(r.Data) > 0 {
		f.CRCData = binary.BigEndian.Uint16(r.CRCData[:])
		data, err := crypt.DecryptData(key, r.Data)
		if err != nil {
			return nil, err
		}
		f.Data = data
		f.Ctrl2.DataLength = uint16(len(data))
	}

	return f, nil
}
