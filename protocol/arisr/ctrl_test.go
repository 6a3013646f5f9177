/*
NAME
  ctrl_test.go

DESCRIPTION
  ctrl_test.go provides testing for behaviour of functionality in ctrl.go.

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
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestCtrlFieldIsolation checks that setting each field of a zeroed
// control word does not disturb the others.
func TestCtrlFieldIsolation(t *testing.T) {
	fields := []struct {
		name  string
		mask  uint32
		shift uint
		value uint8
	}{
		{"version", ctrlVersionMask, ctrlVersionShift, 0x0a},
		{"destinations", ctrlDestinationsMask, ctrlDestinationsShift, 0x05},
		{"from", ctrlFromMask, ctrlFromShift, 0x01},
		{"option", ctrlOptionMask, ctrlOptionShift, 0x02},
		{"sequence", ctrlSequenceMask, ctrlSequenceShift, 0xa5},
		{"retry", ctrlRetryMask, ctrlRetryShift, 0x09},
		{"moreData", ctrlMoreDataMask, ctrlMoreDataShift, 0x01},
		{"identifier", ctrlIdentifierMask, ctrlIdentifierShift, 0x55},
		{"moreHeader", ctrlMoreHeaderMask, ctrlMoreHeaderShift, 0x01},
	}

	var b [CtrlSize]byte
	for _, f := range fields {
		setCtrlField(b[:], f.value, f.mask, f.shift)
	}
	for _, f := range fields {
		got := ctrlField(b[:], f.mask, f.shift)
		if got != f.value {
			t.Errorf("unexpected value for field %v. Got: %v\n Want: %v\n", f.name, got, f.value)
		}
	}
}

// TestSetCtrlFieldClears checks that a second set of the same field
// replaces the first value rather than accumulating bits.
func TestSetCtrlFieldClears(t *testing.T) {
	var b [CtrlSize]byte
	setCtrlField(b[:], 0xff, ctrlSequenceMask, ctrlSequenceShift)
	setCtrlField(b[:], 0x0f, ctrlSequenceMask, ctrlSequenceShift)
	const expect = 0x0f
	got := ctrlField(b[:], ctrlSequenceMask, ctrlSequenceShift)
	if got != expect {
		t.Errorf("unexpected sequence after re-set. Got: %v\n Want: %v\n", got, expect)
	}
}

// TestCtrlRoundTrip checks that packing then unpacking the first control
// word preserves every field.
func TestCtrlRoundTrip(t *testing.T) {
	want := Ctrl{
		Version:      3,
		Destinations: 7,
		From:         true,
		Option:       1,
		Sequence:     201,
		Retry:        12,
		MoreData:     true,
		Identifier:   90,
		MoreHeader:   true,
	}
	var b [CtrlSize]byte
	packCtrl(want, b[:])
	got := unpackCtrl(b[:])
	if got != want {
		t.Errorf("unexpected ctrl after round trip.\nGot: %v\nWant: %v\n", got, want)
	}
}

// TestCtrl2RoundTrip checks that packing then unpacking the second
// control word preserves every field, with the data length scaled by
// DataMult.
func TestCtrl2RoundTrip(t *testing.T) {
	want := Ctrl2{
		DataLength: 3 * DataMult,
		Feature:    0x5a,
		NegAnswer:  true,
		FreqSwitch: true,
	}
	var b [Ctrl2Size]byte
	packCtrl2(want, uint8(want.DataLength/DataMult), b[:])
	got := unpackCtrl2(b[:])
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected ctrl2 after round trip: %v", cmp.Diff(got, want))
	}
}

// TestCtrl2Reserved checks that the reserved bits of the second control
// word are transmitted as zero.
func TestCtrl2Reserved(t *testing.T) {
	var b [Ctrl2Size]byte
	packCtrl2(Ctrl2{Feature: 0xff, NegAnswer: true, FreqSwitch: true}, 0xff, b[:])
	const reserved = ^uint32(ctrl2DataLengthMask | ctrl2FeatureMask | ctrl2NegAnswerMask | ctrl2FreqSwitchMask)
	w := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	if w&reserved != 0 {
		t.Errorf("reserved bits set in ctrl2 word: %#08x", w)
	}
}
