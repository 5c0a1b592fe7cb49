package cfield

import (
	"fmt"
	"reflect"

	"github.com/rawbytedev/safestring"
	"github.com/rawbytedev/safestring/internal/common"
)

// Decode fills out, a pointer to struct, from the record at the start of
// src. A text slot without a terminator is rejected.
func (c *Codec) Decode(src []byte, out any) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return ErrNotStructPtr
	}
	dst := v.Elem()
	p, err := c.getPlan(dst.Type())
	if err != nil {
		return err
	}
	if len(src) < p.size {
		return fmt.Errorf("%w: have %d, need %d", ErrShortRecord, len(src), p.size)
	}
	for _, s := range p.slots {
		region := src[s.offset : s.offset+s.size]
		fv := dst.Field(s.idx)
		if !s.text {
			common.SetFixed(fv, region, s.kind)
			continue
		}
		n, err := safestring.Length(region, len(region))
		if err != nil {
			return fmt.Errorf("field %s: %w", s.name, err)
		}
		if n == len(region) {
			return fmt.Errorf("%w: field %s", ErrUnterminated, s.name)
		}
		if s.kind == reflect.String {
			fv.SetString(string(region[:n]))
		} else {
			fv.SetBytes(append([]byte{}, region[:n]...))
		}
	}
	return nil
}
