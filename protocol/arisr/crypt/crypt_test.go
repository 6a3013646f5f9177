/*
NAME
  crypt_test.go

DESCRIPTION
  crypt_test.go provides testing for behaviour of functionality in
  crypt.go.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package crypt

import (
	"bytes"
	"crypto/aes"
	"testing"
)

var testKey = Key{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}

// TestArisRoundTrip checks that the tag transform is its own inverse and
// actually obfuscates the tag under a non-null key.
func TestArisRoundTrip(t *testing.T) {
	for _, key := range []Key{NullKey, testKey} {
		tag := []byte{'A', 'R', 'I', 'S'}
		err := EncryptAris(key, tag)
		if err != nil {
			t.Fatalf("unexpected error from EncryptAris: %v", err)
		}
		if bytes.Equal(tag, []byte("ARIS")) {
			t.Error("tag unchanged by encryption")
		}
		err = DecryptAris(key, tag)
		if err != nil {
			t.Fatalf("unexpected error from DecryptAris: %v", err)
		}
		if !bytes.Equal(tag, []byte("ARIS")) {
			t.Errorf("unexpected tag after round trip. Got: %v\n Want: %v\n", tag, "ARIS")
		}
	}
}

// TestDataRoundTrip checks that data encryption round trips for a variety
// of plaintext lengths, and that ciphertext is always a padded block
// multiple.
func TestDataRoundTrip(t *testing.T) {
	for _, l := range []int{0, 1, 15, 16, 17, 64, 255} {
		src := make([]byte, l)
		for i := range src {
			src[i] = byte(i)
		}

		enc, err := EncryptData(testKey, src)
		if err != nil {
			t.Fatalf("unexpected error from EncryptData with length %v: %v", l, err)
		}
		if len(enc)%aes.BlockSize != 0 || len(enc) <= l {
			t.Errorf("unexpected ciphertext length for plaintext length %v: %v", l, len(enc))
		}
		if bytes.Contains(enc, src) && l >= aes.BlockSize {
			t.Errorf("ciphertext contains plaintext for length %v", l)
		}

		got, err := DecryptData(testKey, enc)
		if err != nil {
			t.Fatalf("unexpected error from DecryptData with length %v: %v", l, err)
		}
		if !bytes.Equal(got, src) {
			t.Errorf("unexpected plaintext after round trip for length %v.\nGot: %v\nWant: %v\n", l, got, src)
		}
	}
}

// TestDecryptDataBadLength checks that ciphertext of a bad length is
// rejected.
func TestDecryptDataBadLength(t *testing.T) {
	for _, l := range []int{0, 1, 15, 17} {
		_, err := DecryptData(testKey, make([]byte, l))
		if err != ErrBlockSize {
			t.Errorf("unexpected error for ciphertext length %v. Got: %v\n Want: %v\n", l, err, ErrBlockSize)
		}
	}
}

// TestParse checks hex key parsing of good and bad input.
func TestParse(t *testing.T) {
	k, err := Parse("0102030405060708090a0b0c0d0e0f10")
	if err != nil {
		t.Fatalf("unexpected error from Parse: %v", err)
	}
	if k != testKey {
		t.Errorf("unexpected key. Got: %v\n Want: %v\n", k, testKey)
	}

	for _, s := range []string{"", "01", "zz02030405060708090a0b0c0d0e0f10"} {
		_, err := Parse(s)
		if err == nil {
			t.Errorf("expected error from Parse of %q", s)
		}
	}
}

// TestIsNull checks null key detection.
func TestIsNull(t *testing.T) {
	if !NullKey.IsNull() {
		t.Error("NullKey not reported null")
	}
	if testKey.IsNull() {
		t.Error("test key reported null")
	}
}
