package glitch

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Params is a small typed key/value bag. Tools describe the settings they
// ran with in one of these & users may tag runs with more (-p key=value).
type Params struct {
	ints    map[string]int
	floats  map[string]float64
	strings map[string]string
	bools   map[string]bool
}

// NewParams returns an empty params
func NewParams() *Params {
	return &Params{
		ints:    map[string]int{},
		floats:  map[string]float64{},
		strings: map[string]string{},
		bools:   map[string]bool{},
	}
}

// ParseParams reads key=value pairs guessing types: true/false are bools,
// integers are ints, other numbers are floats & everything else a string.
func ParseParams(in map[string]string) *Params {
	p := NewParams()

	for k, v := range in {
		if v == "true" {
			p.SetBool(k, true)
			continue
		} else if v == "false" {
			p.SetBool(k, false)
			continue
		}

		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			p.SetInt(k, int(i))
		} else if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.SetFloat(k, f)
		} else {
			p.SetString(k, v)
		}
	}

	return p
}

// Merge params `o` into these params. Keys in `o` win.
func (p *Params) Merge(o *Params) *Params {
	if o == nil {
		return p
	}
	for k, v := range o.ints {
		p.SetInt(k, v)
	}
	for k, v := range o.floats {
		p.SetFloat(k, v)
	}
	for k, v := range o.strings {
		p.SetString(k, v)
	}
	for k, v := range o.bools {
		p.SetBool(k, v)
	}
	return p
}

// Len is the number of keys set
func (p *Params) Len() int {
	return len(p.ints) + len(p.floats) + len(p.strings) + len(p.bools)
}

// Map flattens the params into a single untyped map
func (p *Params) Map() map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range p.ints {
		out[k] = v
	}
	for k, v := range p.floats {
		out[k] = v
	}
	for k, v := range p.strings {
		out[k] = v
	}
	for k, v := range p.bools {
		out[k] = v
	}
	return out
}

// String renders params as sorted key=value pairs
func (p *Params) String() string {
	m := p.Map()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, m[k])
	}
	return strings.Join(parts, " ")
}

// paramsBlock is how params are stored at rest
type paramsBlock struct {
	I map[string]int
	F map[string]float64
	S map[string]string
	B map[string]bool
}

// MarshalJSON implements json.Marshaler
func (p *Params) MarshalJSON() ([]byte, error) {
	return json.Marshal(paramsBlock{I: p.ints, F: p.floats, S: p.strings, B: p.bools})
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Params) UnmarshalJSON(data []byte) error {
	blk := paramsBlock{}
	if err := json.Unmarshal(data, &blk); err != nil {
		return err
	}

	*p = *NewParams()
	for k, v := range blk.I {
		p.ints[k] = v
	}
	for k, v := range blk.F {
		p.floats[k] = v
	}
	for k, v := range blk.S {
		p.strings[k] = v
	}
	for k, v := range blk.B {
		p.bools[k] = v
	}
	return nil
}

func (p *Params) Str(key string) (string, bool) {
	v, ok := p.strings[key]
	return v, ok
}

func (p *Params) SetString(key, value string) {
	p.clear(key)
	p.strings[key] = value
}

func (p *Params) Int(key string) (int, bool) {
	v, ok := p.ints[key]
	return v, ok
}

func (p *Params) SetInt(key string, value int) {
	p.clear(key)
	p.ints[key] = value
}

func (p *Params) Float(key string) (float64, bool) {
	v, ok := p.floats[key]
	return v, ok
}

func (p *Params) SetFloat(key string, value float64) {
	p.clear(key)
	p.floats[key] = value
}

func (p *Params) Bool(key string) (bool, bool) {
	v, ok := p.bools[key]
	return v, ok
}

func (p *Params) SetBool(key string, value bool) {
	p.clear(key)
	p.bools[key] = value
}

// clear removes key from every type so a key only ever has one type
func (p *Params) clear(key string) {
	delete(p.ints, key)
	delete(p.floats, key)
	delete(p.strings, key)
	delete(p.bools, key)
}
