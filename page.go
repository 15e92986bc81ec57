package mindb

import (
	"encoding/binary"
)

// Page layout constants (spec §6). A page is always exactly PageSize
// bytes: a 4-byte id, a 2-byte free-space-end offset, a 2-byte dead-space
// counter, then the data region.
const (
	PageSize   = 8192
	pageHeader = 4 + 2 + 2 // id, free_space_end, dead_space

	PageDataSize = PageSize - pageHeader

	// slotHeaderSize is the 3-byte (alive u8, len u16) header prefixing
	// every slot's payload.
	slotHeaderSize = 1 + 2

	// MaxTupleSize is the largest tuple that can ever occupy a slot.
	MaxTupleSize = PageDataSize - slotHeaderSize
)

// Page is the in-memory representation of one 8192-byte slotted page for
// one table. Slots are appended to the data region from offset 0 upward
// and are never reordered or compacted; a deleted slot retains its length
// so the iterator can step over it.
type Page struct {
	ID           uint32
	FreeSpaceEnd uint16
	DeadSpace    uint16
	Data         [PageDataSize]byte
}

// NewPage returns an empty page ready to accept inserts.
func NewPage(id uint32) *Page {
	return &Page{ID: id}
}

// FreeSpace returns the number of unused bytes left in the data region.
func (p *Page) FreeSpace() int {
	return PageDataSize - int(p.FreeSpaceEnd)
}

// CanFit reports whether a tuple of t's size fits alongside its 3-byte
// slot header in the page's remaining free space.
func (p *Page) CanFit(t Tuple) bool {
	return p.FreeSpace() >= slotHeaderSize+t.Size()
}

type slotHeader struct {
	alive bool
	len   uint16
}

func (p *Page) readSlotHeader(offset uint16) slotHeader {
	alive := p.Data[offset] != 0
	length := binary.BigEndian.Uint16(p.Data[offset+1 : offset+3])
	return slotHeader{alive: alive, len: length}
}

func (p *Page) writeSlotHeader(offset uint16, h slotHeader) {
	b := byte(0)
	if h.alive {
		b = 1
	}
	p.Data[offset] = b
	binary.BigEndian.PutUint16(p.Data[offset+1:offset+3], h.len)
}

// Insert appends tuple as a new alive slot and returns the slot's starting
// offset (the pre-advance value of FreeSpaceEnd). Fails with an integrity
// error if the page cannot fit the tuple — callers are expected to check
// CanFit before calling Insert.
func (p *Page) Insert(schema *TableSchema, t Tuple) (uint16, error) {
	if !p.CanFit(t) {
		return 0, integrityErr("page %d: insufficient free space for tuple of %d bytes", p.ID, t.Size())
	}
	payload, err := encodeTuple(schema, t)
	if err != nil {
		return 0, err
	}
	if slotHeaderSize+len(payload) > PageDataSize-int(p.FreeSpaceEnd) {
		return 0, integrityErr("page %d: insufficient free space for tuple of %d bytes", p.ID, len(payload))
	}
	offset := p.FreeSpaceEnd
	p.writeSlotHeader(offset, slotHeader{alive: true, len: uint16(len(payload))})
	copy(p.Data[int(offset)+slotHeaderSize:int(offset)+slotHeaderSize+len(payload)], payload)
	p.FreeSpaceEnd += uint16(slotHeaderSize + len(payload))
	return offset, nil
}

// Overwrite rewrites the tuple at slotOffset in place if it still fits
// within the slot's original capacity (its header's recorded len), and
// reports whether it did. A false return means no mutation happened and
// the caller must relocate the tuple elsewhere. The header's len is never
// shrunk: it records capacity, not current payload size, so residue from
// a shrinking overwrite is harmless — readers only ever consume the exact
// number of bytes their schema says a tuple occupies.
func (p *Page) Overwrite(schema *TableSchema, slotOffset uint16, t Tuple) (bool, error) {
	if int(slotOffset) >= PageDataSize {
		return false, integrityErr("page %d: slot offset %d out of bounds", p.ID, slotOffset)
	}
	h := p.readSlotHeader(slotOffset)
	if !h.alive {
		return false, integrityErr("page %d: slot at offset %d is dead", p.ID, slotOffset)
	}
	payload, err := encodeTuple(schema, t)
	if err != nil {
		return false, err
	}
	if len(payload) > int(h.len) {
		return false, nil
	}
	start := int(slotOffset) + slotHeaderSize
	copy(p.Data[start:start+len(payload)], payload)
	return true, nil
}

// MarkDead tombstones the slot at slotOffset: it remains in the page's
// byte stream (so later slots can still be reached by stepping past its
// recorded length) but is skipped by Iterate. Dead space is never
// reclaimed within a page.
func (p *Page) MarkDead(slotOffset uint16) error {
	if int(slotOffset) >= PageDataSize {
		return integrityErr("page %d: slot offset %d out of bounds", p.ID, slotOffset)
	}
	h := p.readSlotHeader(slotOffset)
	if !h.alive {
		return nil
	}
	h.alive = false
	p.writeSlotHeader(slotOffset, h)
	p.DeadSpace += uint16(slotHeaderSize) + h.len
	return nil
}

// PageTuple pairs a slot's offset with its decoded tuple, yielded by Iterate.
type PageTuple struct {
	SlotOffset uint16
	Tuple      Tuple
}

// Iterate walks the page's slots from offset 0, yielding alive tuples in
// insertion order and silently skipping dead slots, stopping once offset
// reaches FreeSpaceEnd. A malformed header is unreachable under the page
// invariants (spec §4.3) and is treated as a fatal logic error.
func (p *Page) Iterate(schema *TableSchema) ([]PageTuple, error) {
	var out []PageTuple
	offset := uint16(0)
	for offset < p.FreeSpaceEnd {
		if int(offset)+slotHeaderSize > PageDataSize {
			panic("mindb: corrupt page: slot header runs past data region")
		}
		h := p.readSlotHeader(offset)
		payloadStart := int(offset) + slotHeaderSize
		payloadEnd := payloadStart + int(h.len)
		if payloadEnd > PageDataSize {
			panic("mindb: corrupt page: slot payload runs past data region")
		}
		if h.alive {
			t, err := decodeTuple(schema, p.Data[payloadStart:payloadEnd])
			if err != nil {
				return nil, err
			}
			out = append(out, PageTuple{SlotOffset: offset, Tuple: t})
		}
		offset = uint16(payloadEnd)
	}
	return out, nil
}

// Serialize writes the page in its bit-exact on-disk form: id (u32) |
// free_space_end (u16) | dead_space (u16) | data (PageDataSize bytes).
// The result is always exactly PageSize bytes.
func (p *Page) Serialize() []byte {
	buf := make([]byte, PageSize)
	binary.BigEndian.PutUint32(buf[0:4], p.ID)
	binary.BigEndian.PutUint16(buf[4:6], p.FreeSpaceEnd)
	binary.BigEndian.PutUint16(buf[6:8], p.DeadSpace)
	copy(buf[pageHeader:], p.Data[:])
	return buf
}

// DeserializePage reconstructs a Page from its bit-exact on-disk form.
func DeserializePage(buf []byte) (*Page, error) {
	if len(buf) != PageSize {
		return nil, ioErr(nil, "invalid data: page buffer is %d bytes, expected %d", len(buf), PageSize)
	}
	p := &Page{
		ID:           binary.BigEndian.Uint32(buf[0:4]),
		FreeSpaceEnd: binary.BigEndian.Uint16(buf[4:6]),
		DeadSpace:    binary.BigEndian.Uint16(buf[6:8]),
	}
	if int(p.FreeSpaceEnd) > PageDataSize {
		return nil, ioErr(nil, "invalid data: page %d free_space_end %d exceeds data region", p.ID, p.FreeSpaceEnd)
	}
	copy(p.Data[:], buf[pageHeader:])
	return p, nil
}
