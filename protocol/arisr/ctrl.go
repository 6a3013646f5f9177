/*
NAME
  ctrl.go

DESCRIPTION
  ctrl.go provides the bit layout of the two ARISR control words and
  functions to pack and unpack their fields. Both words are treated as a
  32-bit big-endian integer; each field is defined by a mask and a shift.

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
)

// Field masks and shifts of the first control word.
const (
	ctrlVersionMask       = 0xf0000000
	ctrlVersionShift      = 28
	ctrlDestinationsMask  = 0x0f000000
	ctrlDestinationsShift = 24
	ctrlFromMask          = 0x00800000
	ctrlFromShift         = 23
	ctrlOptionMask        = 0x00600000
	ctrlOptionShift       = 21
	ctrlSequenceMask      = 0x001fe000
	ctrlSequenceShift     = 13
	ctrlRetryMask         = 0x00001e00
	ctrlRetryShift        = 9
	ctrlMoreDataMask      = 0x00000100
	ctrlMoreDataShift     = 8
	ctrlIdentifierMask    = 0x000000fe
	ctrlIdentifierShift   = 1
	ctrlMoreHeaderMask    = 0x00000001
	ctrlMoreHeaderShift   = 0
)

// Field masks and shifts of the second control word. The low fourteen
// bits are reserved and transmitted as zero.
const (
	ctrl2DataLengthMask  = 0xff000000
	ctrl2DataLengthShift = 24
	ctrl2FeatureMask     = 0x00ff0000
	ctrl2FeatureShift    = 16
	ctrl2NegAnswerMask   = 0x00008000
	ctrl2NegAnswerShift  = 15
	ctrl2FreqSwitchMask  = 0x00004000
	ctrl2FreqSwitchShift = 14
)

// ctrlField returns the field of the control word in b selected by mask
// and shift. b must hold at least CtrlSize bytes.
func ctrlField(b []byte, mask uint32, shift uint) uint8 {
	return uint8(binary.BigEndian.Uint32(b) & mask >> shift)
}

// setCtrlField sets the field of the control word in b selected by mask
// and shift to v. The field window is cleared before v is written, so
// repeated sets of the same field are well defined.
func setCtrlField(b []byte, v uint8, mask uint32, shift uint) {
	w := binary.BigEndian.Uint32(b)
	w = w&^mask | uint32(v)<<shift&mask
	binary.BigEndian.PutUint32(b, w)
}

// unpackCtrl returns the unpacked fields of the first control word in b.
func unpackCtrl(b []byte) Ctrl {
	return Ctrl{
		Version:      ctrlField(b, ctrlVersionMask, ctrlVersionShift),
		Destinations: ctrlField(b, ctrlDestinationsMask, ctrlDestinationsShift),
		From:         ctrlField(b, ctrlFromMask, ctrlFromShift) != 0,
		Option:       ctrlField(b, ctrlOptionMask, ctrlOptionShift),
		Sequence:     ctrlField(b, ctrlSequenceMask, ctrlSequenceShift),
		Retry:        ctrlField(b, ctrlRetryMask, ctrlRetryShift),
		MoreData:     ctrlField(b, ctrlMoreDataMask, ctrlMoreDataShift) != 0,
		Identifier:   ctrlField(b, ctrlIdentifierMask, ctrlIdentifierShift),
		MoreHeader:   ctrlField(b, ctrlMoreHeaderMask, ctrlMoreHeaderShift) != 0,
	}
}

// packCtrl packs c into the control word in b, writing every field.
func packCtrl(c Ctrl, b []byte) {
	binary.BigEndian.PutUint32(b, 0)
	setCtrlField(b, c.Version, ctrlVersionMask, ctrlVersionShift)
	setCtrlField(b, c.Destinations, ctrlDestinationsMask, ctrlDestinationsShift)
	setCtrlField(b, asByte(c.From), ctrlFromMask, ctrlFromShift)
	setCtrlField(b, c.Option, ctrlOptionMask, ctrlOptionShift)
	setCtrlField(b, c.Sequence, ctrlSequenceMask, ctrlSequenceShift)
	setCtrlField(b, c.Retry, ctrlRetryMask, ctrlRetryShift)
	setCtrlField(b, asByte(c.MoreData), ctrlMoreDataMask, ctrlMoreDataShift)
	setCtrlField(b, c.Identifier, ctrlIdentifierMask, ctrlIdentifierShift)
	setCtrlField(b, asByte(c.MoreHeader), ctrlMoreHeaderMask, ctrlMoreHeaderShift)
}

// unpackCtrl2 returns the unpacked fields of the second control word in b.
// The data length field is scaled to its byte count.
func unpackCtrl2(b []byte) Ctrl2 {
	return Ctrl2{
		DataLength: uint16(ctrlField(b, ctrl2DataLengthMask, ctrl2DataLengthShift)) * DataMult,
		Feature:    ctrlField(b, ctrl2FeatureMask, ctrl2FeatureShift),
		NegAnswer:  ctrlField(b, ctrl2NegAnswerMask, ctrl2NegAnswerShift) != 0,
		FreqSwitch: ctrlField(b, ctrl2FreqSwitchMask, ctrl2FreqSwitchShift) != 0,
	}
}

// packCtrl2 packs c into the second control word in b. dataLen is the
// on-wire data length field, the encrypted byte count divided by DataMult.
func packCtrl2(c Ctrl2, dataLen uint8, b []byte) {
	binary.BigEndian.PutUint32(b, 0)
	setCtrlField(b, dataLen, ctrl2DataLengthMask, ctrl2DataLengthShift)
	setCtrlField(b, c.Feature, ctrl2FeatureMask, ctrl2FeatureShift)
	setCtrlField(b, asByte(c.NegAnswer), ctrl2NegAnswerMask, ctrl2NegAnswerShift)
	setCtrlField(b, asByte(c.FreqSwitch), ctrl2FreqSwitchMask, ctrl2FreqSwitchShift)
}

func asByte(b bool) byte {
	if b {
		return 0x01
	}
	return 0x00
}
