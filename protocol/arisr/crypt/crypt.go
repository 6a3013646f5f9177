/*
NAME
  crypt.go

DESCRIPTION
  crypt.go provides the AES-128 transforms applied to the two encrypted
  regions of an ARISR frame: the 4-byte aris tag and the data section.
  The wire format carries no IV; both ends derive a zero IV.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package crypt provides the AES-128 key handling and section transforms
// of the ARISR protocol.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"

	"github.com/pkg/errors"
)

// KeySize is the AES-128 key length in bytes.
const KeySize = 16

// Key is an AES-128 session key.
type Key [KeySize]byte

// NullKey is the all-zero key used when no session key has been set.
var NullKey Key

// Errors returned by the data transforms.
var (
	ErrBlockSize = errors.New("ciphertext length is not a block multiple")
	ErrPadding   = errors.New("invalid ciphertext padding")
)

// IsNull reports whether k is the all-zero null key.
func (k Key) IsNull() bool {
	return k == NullKey
}

// Parse returns the Key encoded by the hex string s.
func Parse(s string) (Key, error) {
	var k Key
	b, err := hex.DecodeString(s)
	if err != nil {
		return k, errors.Wrap(err, "could not decode key hex")
	}
	if len(b) != KeySize {
		return k, errors.Errorf("key is %d bytes, expect %d", len(b), KeySize)
	}
	copy(k[:], b)
	return k, nil
}

// EncryptAris obfuscates the aris tag in place by xoring it with the
// leading AES-CTR keystream bytes under key.
func EncryptAris(key Key, tag []byte) error {
	return xorTag(key, tag)
}

// DecryptAris recovers the in-clear aris tag in place. The transform is
// its own inverse.
func DecryptAris(key Key, tag []byte) error {
	return xorTag(key, tag)
}

func xorTag(key Key, tag []byte) error {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return errors.Wrap(err, "could not create tag cipher")
	}
	var iv [aes.BlockSize]byte
	cipher.NewCTR(block, iv[:]).XORKeyStream(tag, tag)
	return nil
}

// EncryptData returns the AES-128-CBC encryption of src in a new buffer.
// src is padded PKCS#7 style, so the returned length is always a non-zero
// multiple of the block size and exceeds len(src) by at most one block.
func EncryptData(key Key, src []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errors.Wrap(err, "could not create data cipher")
	}
	pad := aes.BlockSize - len(src)%aes.BlockSize
	dst := make([]byte, len(src)+pad)
	copy(dst, src)
	for i := len(src); i < len(dst); i++ {
		dst[i] = byte(pad)
	}
	var iv [aes.BlockSize]byte
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(dst, dst)
	return dst, nil
}

// DecryptData returns the plaintext of the AES-128-CBC ciphertext src in
// a new buffer. The returned length is authoritative; it is the original
// plaintext length, recovered from the padding.
func DecryptData(key Key, src []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errors.Wrap(err, "could not create data cipher")
	}
	if len(src) == 0 || len(src)%aes.BlockSize != 0 {
		return nil, ErrBlockSize
	}
	dst := make([]byte, len(src))
	var iv [aes.BlockSize]byte
	cipher.NewCBCDecrypter(block, iv[:]).CryptBlocks(dst, src)
	pad := int(dst[len(dst)-1])
	if pad == 0 || pad > aes.BlockSize {
		return nil, ErrPadding
	}
	for _, v := range dst[len(dst)-pad:] {
		if int(v) != pad {
			return nil, ErrPadding
		}
	}
	return dst[:len(dst)-pad], nil
}
