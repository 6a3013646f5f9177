/*
NAME
  crc16.go

DESCRIPTION
  crc16.go provides the CRC-16 used by the ARISR protocol for its header
  and data integrity sections, i.e. CRC-16/CCITT-FALSE.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package crc16 implements the CRC-16 variant fixed by the ARISR
// protocol: polynomial 0x1021, initial value 0xffff, no reflection and
// no final xor.
package crc16

const (
	poly    = 0x1021
	initial = 0xffff
)

var table = makeTable(poly)

func makeTable(poly uint16) *[256]uint16 {
	var t [256]uint16
	for i := range t {
		crc := uint16(i) << 8
		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return &t
}

// Checksum returns the CRC-16 of b.
func Checksum(b []byte) uint16 {
	return Update(initial, b)
}

// Update returns the CRC-16 obtained by extending crc with the bytes of b.
func Update(crc uint16, b []byte) uint16 {
	for _, v := range b {
		crc = crc<<8 ^ table[byte(crc>>8)^v]
	}
	return crc
}
