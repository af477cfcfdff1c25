package contract

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

const (
	wordSize    = 32
	addressSize = 20
)

// Selector returns the 4-byte function selector for a canonical signature
// like "placeBet(address,string)".
func Selector(signature string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return h.Sum(nil)[:4]
}

// parseAddress decodes a 0x-prefixed hex address into its 20 raw bytes.
func parseAddress(addr string) ([]byte, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(addr, "0x"), "0X")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid address %q", addr)
	}
	if len(raw) != addressSize {
		return nil, errors.Errorf("invalid address %q: %d bytes", addr, len(raw))
	}
	return raw, nil
}

// encodeAddressWord left-pads an address into one 32-byte word.
func encodeAddressWord(raw []byte) []byte {
	word := make([]byte, wordSize)
	copy(word[wordSize-len(raw):], raw)
	return word
}

// encodeUintWord encodes a uint64 into one big-endian 32-byte word.
func encodeUintWord(v uint64) []byte {
	word := make([]byte, wordSize)
	for i := 0; i < 8; i++ {
		word[wordSize-1-i] = byte(v >> (8 * uint(i)))
	}
	return word
}

// encodeStringTail encodes a dynamic string as length word plus right-padded
// content, the tail section of the ABI encoding.
func encodeStringTail(s string) []byte {
	padded := (len(s) + wordSize - 1) / wordSize * wordSize
	tail := make([]byte, wordSize+padded)
	copy(tail, encodeUintWord(uint64(len(s))))
	copy(tail[wordSize:], s)
	return tail
}

// decodeBoolWord interprets one return word as a solidity bool.
func decodeBoolWord(ret []byte) (bool, error) {
	if len(ret) < wordSize {
		return false, errors.Errorf("return data too short: %d bytes", len(ret))
	}
	return ret[wordSize-1] != 0, nil
}
