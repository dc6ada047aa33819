// Package json reads and writes persisted output documents as generic,
// order-preserving JSON trees for the post-processing commands.
//
// A parsed tree holds *Object for objects, []any for arrays, json.Number
// for numbers, and string, bool or nil for the remaining kinds. Object
// keys keep their document order when written back.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/diogo-cruz/aisafety"
	"github.com/diogo-cruz/aisafety/fs"
)

// Object is a JSON object that keeps its keys in insertion order.
type Object struct {
	fields []aisafety.Field
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{}
}

func (o *Object) index(key string) int {
	for i, f := range o.fields {
		if f.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if i := o.index(key); i >= 0 {
		return o.fields[i].Value, true
	}
	return nil, false
}

// Set replaces the value under key in place, or appends it.
func (o *Object) Set(key string, value any) {
	if i := o.index(key); i >= 0 {
		o.fields[i].Value = value
		return
	}
	o.fields = append(o.fields, aisafety.Field{Key: key, Value: value})
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	i := o.index(key)
	if i < 0 {
		return false
	}
	o.fields = append(o.fields[:i:i], o.fields[i+1:]...)
	return true
}

// Keys returns the object's keys in order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.fields))
	for i, f := range o.fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.fields)
}

// Clone returns a shallow copy of the object.
func (o *Object) Clone() *Object {
	return &Object{fields: append([]aisafety.Field(nil), o.fields...)}
}

// MarshalJSON encodes the object with its keys in order.
func (o *Object) MarshalJSON() ([]byte, error) {
	return aisafety.EncodeFields(o.fields)
}

// Parse decodes a single JSON document. Malformed input, including
// trailing data after the document, is reported as EINVALID.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if errors.Is(err, io.EOF) {
		return nil, aisafety.Errorf(aisafety.EINVALID, "malformed json: unexpected end of input")
	} else if err != nil {
		return nil, aisafety.Errorf(aisafety.EINVALID, "malformed json: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, aisafety.Errorf(aisafety.EINVALID, "malformed json: trailing data after document")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", keyTok)
			}
			v, err := parseValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := parseValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected %q", delim)
}

// ReadFile reads and parses the document at path. A missing file is
// reported as ENOTFOUND.
func ReadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, aisafety.Errorf(aisafety.ENOTFOUND, "%s not found", path)
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	v, err := Parse(data)
	if err != nil {
		return nil, aisafety.Errorf(aisafety.EINVALID, "%s: %s", path, aisafety.ErrorMessage(err))
	}
	return v, nil
}

// WriteFile writes v to path in the persisted output format.
func WriteFile(path string, v any) error {
	return fs.WriteJSON(path, v)
}
