package compactwire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/klauspost/compress/zstd"

	"github.com/rawbytedev/safestring"
)

// open validates the frame envelope and returns its flags and body.
func open(data []byte, want byte) (byte, []byte, error) {
	if len(data) < headerSize+trailerSize || data[0] != Magic0 || data[1] != Magic1 {
		return 0, nil, ErrNotFrame
	}
	if data[2] != want {
		return 0, nil, fmt.Errorf("%w: 0x%02x", ErrType, data[2])
	}
	if n := binary.LittleEndian.Uint32(data[3:]); uint64(n) != uint64(len(data)) {
		return 0, nil, fmt.Errorf("%w: header %d, frame %d", ErrLength, n, len(data))
	}
	end := len(data) - trailerSize
	if crc32.ChecksumIEEE(data[2:end]) != binary.LittleEndian.Uint32(data[end:]) {
		return 0, nil, ErrCRC
	}
	return data[7], data[headerSize:end], nil
}

// DecodeRecord returns the record payload carried by a record frame.
func (c *Codec) DecodeRecord(data []byte) ([]byte, error) {
	flags, body, err := open(data, TypeRecord)
	if err != nil {
		return nil, err
	}
	if flags&^FlagZstd != 0 {
		return nil, fmt.Errorf("%w: 0x%02x", ErrFlags, flags)
	}
	if flags&FlagZstd == 0 {
		if uint64(len(body)) > c.opts.MaxPayload {
			return nil, ErrTooLarge
		}
		return append([]byte(nil), body...), nil
	}
	out, err := c.dec.DecodeAll(body, nil)
	if err != nil {
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) ||
			errors.Is(err, zstd.ErrWindowSizeExceeded) ||
			errors.Is(err, zstd.ErrFrameSizeExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrTooLarge, err)
		}
		return nil, err
	}
	if uint64(len(out)) > c.opts.MaxPayload {
		return nil, ErrTooLarge
	}
	return out, nil
}

// DecodeError returns the kind and message carried by an error frame. A
// message slot without a terminator is rejected.
func (c *Codec) DecodeError(data []byte) (safestring.Kind, string, error) {
	_, body, err := open(data, TypeError)
	if err != nil {
		return 0, "", err
	}
	if len(body) != 1+MessageSize {
		return 0, "", fmt.Errorf("%w: error body %d bytes", ErrLength, len(body))
	}
	kind := safestring.Kind(body[0])
	if !validKind(kind) {
		return 0, "", fmt.Errorf("%w: %d", ErrKind, body[0])
	}
	slot := body[1:]
	n, err := safestring.Length(slot, len(slot))
	if err != nil {
		return 0, "", err
	}
	if n == len(slot) {
		return 0, "", fmt.Errorf("%w: unterminated message", ErrLength)
	}
	return kind, string(slot[:n]), nil
}
