package email

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDataNotObject is returned when the data field is not a JSON object.
var ErrDataNotObject = errors.New("data must be a JSON object")

// Field is a single key/value pair of the request data.
type Field struct {
	Key   string
	Value any
}

// Data is the optional key/value payload of a request. Unlike a Go map it
// keeps the order in which keys appeared in the JSON document.
type Data struct {
	fields []Field
}

// NewData builds Data from the given fields, applying the same duplicate
// handling as JSON decoding.
func NewData(fields ...Field) *Data {
	d := &Data{}
	for _, f := range fields {
		d.set(f.Key, f.Value)
	}
	return d
}

// Fields returns the fields in insertion order.
func (d *Data) Fields() []Field {
	if d == nil {
		return nil
	}
	return d.fields
}

// Len returns the number of distinct keys.
func (d *Data) Len() int {
	if d == nil {
		return 0
	}
	return len(d.fields)
}

// set keeps the position of the first occurrence of key and the latest value.
func (d *Data) set(key string, value any) {
	for i := range d.fields {
		if d.fields[i].Key == key {
			d.fields[i].Value = value
			return
		}
	}
	d.fields = append(d.fields, Field{Key: key, Value: value})
}

// UnmarshalJSON decodes a JSON object token by token so key order survives.
// Numbers are kept as json.Number; nested values are decoded generically.
func (d *Data) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrDataNotObject
	}

	d.fields = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in data object", tok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to decode data field %q: %w", key, err)
		}
		d.set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON writes the fields back as an object in insertion order.
func (d *Data) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
