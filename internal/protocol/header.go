// Package protocol implements the wire codec: packet framing, the legacy
// checksum, and little-endian payload encode/decode. Structures are packed
// with no padding, matching the legacy client byte-for-byte.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the fixed 12-byte header: size, opcode, client_id,
// checksum, and two reserved words.
const HeaderSize = 12

// MinPacketSize and MaxPacketSize bound the `size` header field.
const (
	MinPacketSize = HeaderSize
	MaxPacketSize = 8192
)

// Protocol-layer errors. All close the connection per the taxonomy.
var (
	ErrBadChecksum    = errors.New("protocol: bad checksum")
	ErrBadSize        = errors.New("protocol: size out of bounds")
	ErrSizeMismatch   = errors.New("protocol: size mismatch for opcode")
	ErrUnknownOpcode  = errors.New("protocol: unknown opcode")
	ErrWrongState     = errors.New("protocol: opcode not permitted in current state")
	ErrDesyncedCrypto = errors.New("protocol: obfuscation seed desynced")
)

// Header is the 12-byte packet header common to every packet.
type Header struct {
	Size     uint16
	Opcode   uint16
	ClientID uint16
	Checksum uint16
}

// ParseHeader reads the fixed header from the front of buf. buf must be at
// least HeaderSize bytes.
func ParseHeader(buf []byte) Header {
	return Header{
		Size:     binary.LittleEndian.Uint16(buf[0:2]),
		Opcode:   binary.LittleEndian.Uint16(buf[2:4]),
		ClientID: binary.LittleEndian.Uint16(buf[4:6]),
		Checksum: binary.LittleEndian.Uint16(buf[6:8]),
		// bytes [8:12] are reserved, always zero on the wire.
	}
}

// PutHeader writes h into the front of buf. buf must be at least HeaderSize
// bytes; bytes [8:12] are zeroed (reserved).
func PutHeader(buf []byte, h Header) {
	binary.LittleEndian.PutUint16(buf[0:2], h.Size)
	binary.LittleEndian.PutUint16(buf[2:4], h.Opcode)
	binary.LittleEndian.PutUint16(buf[4:6], h.ClientID)
	binary.LittleEndian.PutUint16(buf[6:8], h.Checksum)
	binary.LittleEndian.PutUint16(buf[8:10], 0)
	binary.LittleEndian.PutUint16(buf[10:12], 0)
}

// computeChecksum sums every 16-bit little-endian word from word offset 6
// (byte 12, i.e. the first payload word) through size/2-1, masked to 16
// bits. The checksum field itself (bytes 6:8) must be zero in buf when
// this is called — callers zero it before computing and restore it after.
func computeChecksum(buf []byte, size uint16) uint16 {
	var sum uint32
	for i := int(HeaderSize); i+1 < int(size); i += 2 {
		sum += uint32(binary.LittleEndian.Uint16(buf[i : i+2]))
	}
	// size/2-1 is the last whole word index; an odd trailing byte (if any)
	// is not part of any 16-bit word and is excluded, matching the spec.
	return uint16(sum & 0xFFFF)
}

// Frame extracts one fully-framed packet from buf, returning the packet's
// header, its payload (the bytes after the 12-byte header, still
// obfuscated), and the remainder of buf after the packet. ok is false if
// buf does not yet contain a complete packet.
func Frame(buf []byte) (hdr Header, payload []byte, remainder []byte, ok bool, err error) {
	if len(buf) < HeaderSize {
		return Header{}, nil, buf, false, nil
	}
	hdr = ParseHeader(buf)
	if hdr.Size < MinPacketSize || hdr.Size > MaxPacketSize {
		return Header{}, nil, nil, false, fmt.Errorf("frame size %d: %w", hdr.Size, ErrBadSize)
	}
	if len(buf) < int(hdr.Size) {
		return Header{}, nil, buf, false, nil
	}
	return hdr, buf[HeaderSize:hdr.Size], buf[hdr.Size:], true, nil
}

// VerifyChecksum recomputes the checksum over a fully-framed packet (header
// + payload, payload still obfuscated) and compares it against the header's
// recorded value.
func VerifyChecksum(packet []byte, hdr Header) error {
	// Zero the checksum field for the recompute, matching the encoder.
	saved := binary.LittleEndian.Uint16(packet[6:8])
	binary.LittleEndian.PutUint16(packet[6:8], 0)
	got := computeChecksum(packet, hdr.Size)
	binary.LittleEndian.PutUint16(packet[6:8], saved)

	if got != hdr.Checksum {
		return fmt.Errorf("checksum %#x != header %#x: %w", got, hdr.Checksum, ErrBadChecksum)
	}
	return nil
}

// Seal finalizes a packet: it writes the header (size, opcode, clientID)
// into buf[:HeaderSize+len(payload)] with the checksum field temporarily
// zeroed, computes the checksum over the full packet, and writes it back.
// payload must already occupy buf[HeaderSize : HeaderSize+len(payload)].
func Seal(buf []byte, opcode, clientID uint16, payloadLen int) []byte {
	size := uint16(HeaderSize + payloadLen)
	PutHeader(buf, Header{Size: size, Opcode: opcode, ClientID: clientID})
	checksum := computeChecksum(buf, size)
	binary.LittleEndian.PutUint16(buf[6:8], checksum)
	return buf[:size]
}
