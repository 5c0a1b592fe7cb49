// Package cfield packs Go structs into fixed-layout records whose text fields
// are fixed-capacity, NUL-terminated slots.
//
// A string or []byte field declares its slot capacity, terminator included,
// with a `cstr:"N"` tag. Fixed-width numeric and bool fields are stored little
// endian in declaration order. `cstr:"-"` skips a field.
package cfield

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/rawbytedev/safestring/internal/common"
)

var (
	ErrNotStruct    = errors.New("expected struct")
	ErrNotStructPtr = errors.New("expected pointer to struct")
	ErrUnsupported  = errors.New("unsupported type")
	ErrBadTag       = errors.New("bad cstr tag")
	ErrShortRecord  = errors.New("record buffer too short")
	ErrUnterminated = errors.New("unterminated slot")
)

const tagName = "cstr"

type slot struct {
	idx    int
	name   string
	kind   reflect.Kind
	offset int
	size   int
	text   bool
}

type plan struct {
	size  int
	slots []slot
}

// Codec caches one layout plan per struct type. Safe for concurrent use.
type Codec struct {
	mu    sync.RWMutex
	plans map[reflect.Type]*plan
}

func New() *Codec {
	return &Codec{plans: make(map[reflect.Type]*plan)}
}

// Report lists the fields whose content did not fit its slot.
type Report struct {
	Truncated []string
}

// Size returns the record size of v's struct type.
func (c *Codec) Size(v any) (int, error) {
	rv, err := structValue(v)
	if err != nil {
		return 0, err
	}
	p, err := c.getPlan(rv.Type())
	if err != nil {
		return 0, err
	}
	return p.size, nil
}

func structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, ErrNotStruct
	}
	return rv, nil
}

func (c *Codec) getPlan(t reflect.Type) (*plan, error) {
	c.mu.RLock()
	if p, ok := c.plans[t]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check
	if p, ok := c.plans[t]; ok {
		return p, nil
	}
	p, err := buildPlan(t)
	if err != nil {
		return nil, err
	}
	c.plans[t] = p
	return p, nil
}

func buildPlan(t reflect.Type) (*plan, error) {
	p := &plan{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, tagged := sf.Tag.Lookup(tagName)
		if tag == "-" {
			continue
		}
		k := sf.Type.Kind()
		s := slot{idx: i, name: sf.Name, kind: k, offset: p.size}
		switch {
		case k == reflect.String || (k == reflect.Slice && sf.Type.Elem().Kind() == reflect.Uint8):
			if !tagged {
				return nil, fmt.Errorf("%w: field %s needs a capacity", ErrBadTag, sf.Name)
			}
			n, err := strconv.Atoi(tag)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: field %s: %q", ErrBadTag, sf.Name, tag)
			}
			s.size, s.text = n, true
		case common.IsFixedKind(k):
			if tagged {
				return nil, fmt.Errorf("%w: field %s is fixed width", ErrBadTag, sf.Name)
			}
			s.size = common.FixedSize(k)
		default:
			return nil, fmt.Errorf("%w: field %s (%s)", ErrUnsupported, sf.Name, sf.Type)
		}
		p.slots = append(p.slots, s)
		p.size += s.size
	}
	return p, nil
}
