package mindb

import (
	"bytes"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	if err := writeU8(&buf, 0xAB); err != nil {
		t.Fatalf("writeU8: %v", err)
	}
	if err := writeU16(&buf, 0x1234); err != nil {
		t.Fatalf("writeU16: %v", err)
	}
	if err := writeU32(&buf, 0xDEADBEEF); err != nil {
		t.Fatalf("writeU32: %v", err)
	}
	if err := writeI32(&buf, -42); err != nil {
		t.Fatalf("writeI32: %v", err)
	}
	if err := writeF64(&buf, 1.874); err != nil {
		t.Fatalf("writeF64: %v", err)
	}
	if err := writeBool(&buf, true); err != nil {
		t.Fatalf("writeBool: %v", err)
	}
	if err := writeString(&buf, "test"); err != nil {
		t.Fatalf("writeString: %v", err)
	}

	r := bytes.NewReader(buf.Bytes())

	if v, err := readU8(r); err != nil || v != 0xAB {
		t.Errorf("readU8 = %v, %v; want 0xAB, nil", v, err)
	}
	if v, err := readU16(r); err != nil || v != 0x1234 {
		t.Errorf("readU16 = %v, %v; want 0x1234, nil", v, err)
	}
	if v, err := readU32(r); err != nil || v != 0xDEADBEEF {
		t.Errorf("readU32 = %v, %v; want 0xDEADBEEF, nil", v, err)
	}
	if v, err := readI32(r); err != nil || v != -42 {
		t.Errorf("readI32 = %v, %v; want -42, nil", v, err)
	}
	if v, err := readF64(r); err != nil || v != 1.874 {
		t.Errorf("readF64 = %v, %v; want 1.874, nil", v, err)
	}
	if v, err := readBool(r); err != nil || v != true {
		t.Errorf("readBool = %v, %v; want true, nil", v, err)
	}
	if v, err := readString(r); err != nil || v != "test" {
		t.Errorf("readString = %q, %v; want \"test\", nil", v, err)
	}
}

func TestCodecStringRejectsInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	writeU32(&buf, 3)
	buf.Write([]byte{0xFF, 0xFE, 0xFD})

	if _, err := readString(&buf); err == nil {
		t.Fatal("expected error for invalid UTF-8, got nil")
	} else if !IsKind(err, KindIO) {
		t.Errorf("expected IO error kind, got %v", err)
	}
}

// TestTupleByteExactEncoding verifies the end-to-end scenario in spec §8:
// (1, 'test', 1.874, true) encodes to the given big-endian byte sequence.
func TestTupleByteExactEncoding(t *testing.T) {
	schema := &TableSchema{
		ID:   0,
		Name: "test",
		Columns: []Column{
			{Name: "id", Typ: TypeInt32},
			{Name: "name", Typ: TypeString},
			{Name: "height", Typ: TypeDouble},
			{Name: "is_fox", Typ: TypeBool},
		},
	}
	tup := Tuple{Values: []Value{
		Int32Value(1),
		StringValue("test"),
		DoubleValue(1.874),
		BoolValue(true),
	}}

	var buf bytes.Buffer
	if err := WriteTuple(schema, tup, &buf); err != nil {
		t.Fatalf("WriteTuple: %v", err)
	}

	want := []byte{
		0x00, 0x00, 0x00, 0x01, // id int32
		0x00, 0x00, 0x00, 0x04, 0x74, 0x65, 0x73, 0x74, // "test"
		0x3F, 0xFD, 0xFB, 0xE7, 0x6C, 0x8B, 0x43, 0x96, // 1.874
		0x01, // true
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("encoded bytes = % X, want % X", buf.Bytes(), want)
	}

	got, err := ReadTuple(schema, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadTuple: %v", err)
	}
	for i := range got.Values {
		if !got.Values[i].Equal(tup.Values[i]) {
			t.Errorf("value %d = %v, want %v", i, got.Values[i], tup.Values[i])
		}
	}
}
