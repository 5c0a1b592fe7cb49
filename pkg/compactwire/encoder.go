package compactwire

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/rawbytedev/safestring"
)

// EncodeRecord wraps a record payload in a frame, compressing it when the
// codec was built with Compress.
func (c *Codec) EncodeRecord(payload []byte) ([]byte, error) {
	if uint64(len(payload)) > c.opts.MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(payload))
	}
	var flags byte
	body := payload
	if c.opts.Compress {
		body = c.enc.EncodeAll(payload, nil)
		flags |= FlagZstd
	}
	if uint64(len(body)) > maxBody {
		return nil, fmt.Errorf("%w: %d byte body", ErrTooLarge, len(body))
	}
	return seal(TypeRecord, flags, body), nil
}

// EncodeError builds an error frame: one kind byte and a fixed message slot.
// A message longer than the slot is truncated.
func (c *Codec) EncodeError(kind safestring.Kind, msg string) ([]byte, bool, error) {
	if !validKind(kind) {
		return nil, false, fmt.Errorf("%w: %d", ErrKind, kind)
	}
	body := make([]byte, 1+MessageSize)
	body[0] = byte(kind)
	o, err := safestring.Copy(body[1:], safestring.Terminate(msg))
	if err != nil {
		return nil, false, err
	}
	return seal(TypeError, 0, body), o.Truncated(), nil
}

func seal(typ, flags byte, body []byte) []byte {
	out := make([]byte, headerSize, headerSize+len(body)+trailerSize)
	out[0], out[1], out[2] = Magic0, Magic1, typ
	binary.LittleEndian.PutUint32(out[3:], uint32(headerSize+len(body)+trailerSize))
	out[7] = flags
	out = append(out, body...)
	crc := crc32.ChecksumIEEE(out[2:])
	return binary.LittleEndian.AppendUint32(out, crc)
}

// validKind reports whether k is a kind an error frame can carry.
func validKind(k safestring.Kind) bool {
	return k >= safestring.KindNullArgument && k <= safestring.KindFormat
}
