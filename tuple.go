package mindb

import (
	"bytes"
	"io"
)

// Tuple is one row: an ordered list of values whose length and element
// types must match the owning table's schema exactly. Tuples carry no
// per-row header or null bitmap — NULL is not representable (spec §3).
type Tuple struct {
	Values []Value
}

// Size is the sum of the serialized size of every value, with no padding
// or alignment between them.
func (t Tuple) Size() int {
	n := 0
	for _, v := range t.Values {
		n += v.Size()
	}
	return n
}

// checkConformsTo verifies t's arity and per-column types against schema.
func (t Tuple) checkConformsTo(schema *TableSchema) error {
	if len(t.Values) != len(schema.Columns) {
		return execErr("tuple has %d values, table %q has %d columns", len(t.Values), schema.Name, len(schema.Columns))
	}
	for i, v := range t.Values {
		if v.Typ != schema.Columns[i].Typ {
			return execErr("column %q: expected %v, got %v", schema.Columns[i].Name, schema.Columns[i].Typ, v.Typ)
		}
	}
	return nil
}

// WriteTuple writes t's values in column order to w, after checking that
// t conforms to schema. No per-tuple header or length prefix is written.
func WriteTuple(schema *TableSchema, t Tuple, w io.Writer) error {
	if err := t.checkConformsTo(schema); err != nil {
		return err
	}
	for _, v := range t.Values {
		if err := v.write(w); err != nil {
			return err
		}
	}
	return nil
}

// ReadTuple reads exactly one value per column of schema, in order,
// consuming exactly Tuple.Size() bytes and no per-tuple header.
func ReadTuple(schema *TableSchema, r io.Reader) (Tuple, error) {
	values := make([]Value, len(schema.Columns))
	for i, col := range schema.Columns {
		v, err := readValue(r, col.Typ)
		if err != nil {
			return Tuple{}, err
		}
		values[i] = v
	}
	return Tuple{Values: values}, nil
}

// encodeTuple is a small helper used by the page layer: it serializes t
// under schema into a freshly allocated byte slice whose length is
// Tuple.Size(), so it can be copied straight into a slot payload.
func encodeTuple(schema *TableSchema, t Tuple) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(t.Size())
	if err := WriteTuple(schema, t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeTuple(schema *TableSchema, payload []byte) (Tuple, error) {
	return ReadTuple(schema, bytes.NewReader(payload))
}
