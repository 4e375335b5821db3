package crypto

import (
	"fmt"

	"golang.org/x/crypto/blowfish"
)

// blockSize is the Blowfish cipher block size in bytes.
const blockSize = 8

// HandshakeKey is the key baked into every client build, used only to
// scramble the per-connection dynamic key and seed inside the Initial
// packet. It buys nothing against a motivated attacker reading the
// client binary, but it keeps the dynamic key off the wire in the clear
// and matches the legacy client's expectation.
var HandshakeKey = []byte{
	0x5F, 0x3B, 0x76, 0x2E, 0x5D, 0x30, 0x35, 0x2D,
	0x33, 0x31, 0x21, 0x7C, 0x2B, 0x2D, 0x25, 0x78,
}

// BlowfishCipher wraps Blowfish ECB encryption/decryption used only for the
// one-shot handshake key delivery. Steady-state packet traffic uses the
// rolling XOR cipher in game_crypt.go.
type BlowfishCipher struct {
	cipher *blowfish.Cipher
}

// NewBlowfishCipher creates a new Blowfish ECB cipher from the given key.
func NewBlowfishCipher(key []byte) (*BlowfishCipher, error) {
	c, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating blowfish cipher: %w", err)
	}
	return &BlowfishCipher{cipher: c}, nil
}

// Encrypt encrypts data in-place using Blowfish ECB mode.
// len(data) must be a multiple of the block size.
func (b *BlowfishCipher) Encrypt(data []byte) error {
	if len(data)%blockSize != 0 {
		return fmt.Errorf("blowfish encrypt: size %d is not a multiple of %d", len(data), blockSize)
	}
	for i := 0; i < len(data); i += blockSize {
		b.cipher.Encrypt(data[i:i+blockSize], data[i:i+blockSize])
	}
	return nil
}

// Decrypt decrypts data in-place using Blowfish ECB mode.
// len(data) must be a multiple of the block size.
func (b *BlowfishCipher) Decrypt(data []byte) error {
	if len(data)%blockSize != 0 {
		return fmt.Errorf("blowfish decrypt: size %d is not a multiple of %d", len(data), blockSize)
	}
	for i := 0; i < len(data); i += blockSize {
		b.cipher.Decrypt(data[i:i+blockSize], data[i:i+blockSize])
	}
	return nil
}
