package mindb

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"
)

// Stateless big-endian read/write routines for the primitive wire types
// used throughout the catalog, page, and tuple formats. No framing, no
// magic numbers, no checksums — every caller knows exactly how many bytes
// it is reading or writing.

func writeU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	if err != nil {
		return ioErr(err, "write u8")
	}
	return nil
}

func readU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ioErr(err, "read u8")
	}
	return buf[0], nil
}

func writeU16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return ioErr(err, "write u16")
	}
	return nil
}

func readU16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ioErr(err, "read u16")
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return ioErr(err, "write u32")
	}
	return nil
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ioErr(err, "read u32")
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func writeI32(w io.Writer, v int32) error {
	return writeU32(w, uint32(v))
}

func readI32(r io.Reader) (int32, error) {
	v, err := readU32(r)
	return int32(v), err
}

func writeF64(w io.Writer, v float64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	if _, err := w.Write(buf[:]); err != nil {
		return ioErr(err, "write f64")
	}
	return nil
}

func readF64(r io.Reader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ioErr(err, "read f64")
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf[:])), nil
}

func writeBool(w io.Writer, v bool) error {
	b := uint8(0)
	if v {
		b = 1
	}
	return writeU8(w, b)
}

func readBool(r io.Reader) (bool, error) {
	b, err := readU8(r)
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// writeString writes a u32 big-endian length prefix followed by the UTF-8
// bytes.
func writeString(w io.Writer, s string) error {
	if err := writeU32(w, uint32(len(s))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, s); err != nil {
		return ioErr(err, "write string bytes")
	}
	return nil
}

// readString reads a u32 length prefix then that many bytes, failing with
// an IO error if the bytes are not valid UTF-8.
func readString(r io.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", ioErr(err, "read string bytes")
	}
	if !utf8.Valid(buf) {
		return "", ioErr(nil, "invalid data: string is not valid UTF-8")
	}
	return string(buf), nil
}
