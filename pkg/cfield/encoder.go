package cfield

import (
	"fmt"
	"reflect"

	"github.com/rawbytedev/safestring"
	"github.com/rawbytedev/safestring/internal/common"
)

// Encode writes v into the first Size(v) bytes of dst. Text that does not
// fit its slot is truncated, terminated and listed in the report; unused slot
// bytes are zeroed.
func (c *Codec) Encode(dst []byte, v any) (Report, error) {
	var rep Report
	rv, err := structValue(v)
	if err != nil {
		return rep, err
	}
	p, err := c.getPlan(rv.Type())
	if err != nil {
		return rep, err
	}
	if len(dst) < p.size {
		return rep, fmt.Errorf("%w: have %d, need %d", ErrShortRecord, len(dst), p.size)
	}
	for _, s := range p.slots {
		region := dst[s.offset : s.offset+s.size]
		fv := rv.Field(s.idx)
		if !s.text {
			common.PutFixed(region, fv)
			continue
		}
		common.Fill(region)
		o, err := safestring.Copy(region, textBytes(fv))
		if err != nil {
			return rep, fmt.Errorf("field %s: %w", s.name, err)
		}
		if o.Truncated() {
			rep.Truncated = append(rep.Truncated, s.name)
		}
	}
	return rep, nil
}

// Append encodes v after the existing content of dst.
func (c *Codec) Append(dst []byte, v any) ([]byte, Report, error) {
	n, err := c.Size(v)
	if err != nil {
		return dst, Report{}, err
	}
	start := len(dst)
	dst = append(dst, make([]byte, n)...)
	rep, err := c.Encode(dst[start:], v)
	if err != nil {
		return dst[:start], rep, err
	}
	return dst, rep, nil
}

func textBytes(v reflect.Value) []byte {
	var b []byte
	if v.Kind() == reflect.String {
		b = []byte(v.String())
	} else {
		b = v.Bytes()
	}
	if b == nil {
		b = []byte{}
	}
	return b
}
