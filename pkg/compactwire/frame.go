// Package compactwire frames fixed-layout records and error reports with a
// length prefix and a CRC32 trailer.
//
// Frame layout:
//
//	magic(2) | type(1) | length(4, LE, whole frame) | flags(1) | body | crc32(4, LE)
//
// The CRC covers every byte after the magic up to the end of the body.
package compactwire

import (
	"errors"
	"math"

	"github.com/klauspost/compress/zstd"
)

const (
	Magic0 byte = 0xC5
	Magic1 byte = 0x57

	TypeRecord byte = 0x01
	TypeError  byte = 0x02

	// FlagZstd marks a record body compressed with zstd.
	FlagZstd byte = 0x01

	headerSize  = 8
	trailerSize = 4

	// MessageSize is the fixed slot holding an error frame's message,
	// terminator included.
	MessageSize = 128

	defaultMaxPayload = 1 << 20
	maxBody           = math.MaxUint32 - headerSize - trailerSize
)

var (
	ErrNotFrame = errors.New("not a compactwire frame")
	ErrType     = errors.New("unexpected frame type")
	ErrLength   = errors.New("length mismatch")
	ErrCRC      = errors.New("crc mismatch")
	ErrTooLarge = errors.New("payload exceeds limit")
	ErrFlags    = errors.New("unknown flags")
	ErrKind     = errors.New("unknown error kind")
)

// Options controls frame encoding and the limits applied when decoding.
type Options struct {
	Compress   bool   // compress record bodies with zstd
	MaxPayload uint64 // largest accepted decoded record body; 0 means 1 MiB, capped to what the length field holds
}

// Codec encodes and decodes frames. It holds a zstd encoder and decoder and
// is safe for concurrent use.
type Codec struct {
	opts Options
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

func NewCodec(opts Options) (*Codec, error) {
	if opts.MaxPayload == 0 {
		opts.MaxPayload = defaultMaxPayload
	}
	opts.MaxPayload = min(opts.MaxPayload, maxBody)
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(opts.MaxPayload))
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &Codec{opts: opts, enc: enc, dec: dec}, nil
}

// Close releases the zstd encoder and decoder.
func (c *Codec) Close() error {
	c.dec.Close()
	return c.enc.Close()
}
