package mindb

import (
	"os"
)

// PageTable is the file backing one table: a sequence of PageSize pages
// stored back to back, indexed by page_id = byte offset / PageSize. Every
// operation opens the file, does its seek + read/write, and closes it —
// there is no persistent file handle or buffer pool (spec §5): the data
// file is opened per-operation and handles are released on every exit
// path via scoped acquisition.
type PageTable struct {
	schema    *TableSchema
	path      string
	pageCount uint32
}

// InitPageTable creates a brand-new page table file at path with a single
// empty page (page 0). Fails with an integrity error if the file already
// exists.
func InitPageTable(schema *TableSchema, path string) (*PageTable, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, integrityErr("page table %q already exists", path)
	} else if !os.IsNotExist(err) {
		return nil, ioErr(err, "stat page table %q", path)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, ioErr(err, "create page table %q", path)
	}
	defer f.Close()

	if _, err := f.Write(NewPage(0).Serialize()); err != nil {
		return nil, ioErr(err, "write initial page of %q", path)
	}

	return &PageTable{schema: schema, path: path, pageCount: 1}, nil
}

// LoadPageTable opens an existing page table file at path.
func LoadPageTable(schema *TableSchema, path string) (*PageTable, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ioErr(err, "stat page table %q", path)
	}
	if info.Size()%PageSize != 0 {
		return nil, ioErr(nil, "invalid data: page table %q size %d is not a multiple of %d", path, info.Size(), PageSize)
	}
	return &PageTable{
		schema:    schema,
		path:      path,
		pageCount: uint32(info.Size() / PageSize),
	}, nil
}

// PageCount returns the number of pages currently in the table.
func (pt *PageTable) PageCount() uint32 { return pt.pageCount }

// GetPage loads a single page by id.
func (pt *PageTable) GetPage(pageID uint32) (*Page, error) {
	if pageID >= pt.pageCount {
		return nil, integrityErr("page table %q: page id %d out of bounds (count %d)", pt.path, pageID, pt.pageCount)
	}

	f, err := os.Open(pt.path)
	if err != nil {
		return nil, ioErr(err, "open page table %q", pt.path)
	}
	defer f.Close()

	buf := make([]byte, PageSize)
	if _, err := f.ReadAt(buf, int64(pageID)*PageSize); err != nil {
		return nil, ioErr(err, "read page %d of %q", pageID, pt.path)
	}
	return DeserializePage(buf)
}

// SavePage writes page to its slot in the file. If page.ID is beyond the
// current page count, the write extends the file and the page count is
// advanced to page.ID+1.
func (pt *PageTable) SavePage(page *Page) error {
	f, err := os.OpenFile(pt.path, os.O_RDWR, 0644)
	if err != nil {
		return ioErr(err, "open page table %q for write", pt.path)
	}
	defer f.Close()

	if _, err := f.WriteAt(page.Serialize(), int64(page.ID)*PageSize); err != nil {
		return ioErr(err, "write page %d of %q", page.ID, pt.path)
	}
	if err := f.Sync(); err != nil {
		return ioErr(err, "sync page table %q", pt.path)
	}

	if page.ID >= pt.pageCount {
		pt.pageCount = page.ID + 1
	}
	return nil
}

// TupleLocation identifies a tuple's home within a page table.
type TupleLocation struct {
	PageID     uint32
	SlotOffset uint16
}

// InsertTuple appends t to the table. It only ever touches the last page:
// if the last page cannot fit t, a fresh page is allocated and the tuple
// lands there. Earlier pages' free space (including dead space from
// deletes) is never scanned or reused — intentional per spec §4.4/§9.
func (pt *PageTable) InsertTuple(t Tuple) (TupleLocation, error) {
	lastID := pt.pageCount - 1
	page, err := pt.GetPage(lastID)
	if err != nil {
		return TupleLocation{}, err
	}

	if !page.CanFit(t) {
		page = NewPage(pt.pageCount)
	}

	offset, err := page.Insert(pt.schema, t)
	if err != nil {
		return TupleLocation{}, err
	}
	if err := pt.SavePage(page); err != nil {
		return TupleLocation{}, err
	}
	return TupleLocation{PageID: page.ID, SlotOffset: offset}, nil
}

// OverwriteTuple replaces the tuple at loc with t. If it no longer fits
// the slot's capacity, the original slot is tombstoned and t is relocated:
// first tried on the same page, then — if that page is also full — on the
// table's last page via InsertTuple.
func (pt *PageTable) OverwriteTuple(loc TupleLocation, t Tuple) (TupleLocation, error) {
	page, err := pt.GetPage(loc.PageID)
	if err != nil {
		return TupleLocation{}, err
	}

	ok, err := page.Overwrite(pt.schema, loc.SlotOffset, t)
	if err != nil {
		return TupleLocation{}, err
	}
	if ok {
		if err := pt.SavePage(page); err != nil {
			return TupleLocation{}, err
		}
		return loc, nil
	}

	if err := page.MarkDead(loc.SlotOffset); err != nil {
		return TupleLocation{}, err
	}

	if page.CanFit(t) {
		newOffset, err := page.Insert(pt.schema, t)
		if err != nil {
			return TupleLocation{}, err
		}
		if err := pt.SavePage(page); err != nil {
			return TupleLocation{}, err
		}
		return TupleLocation{PageID: page.ID, SlotOffset: newOffset}, nil
	}

	if err := pt.SavePage(page); err != nil {
		return TupleLocation{}, err
	}
	return pt.InsertTuple(t)
}

// DeleteTuple tombstones the slot at loc.
func (pt *PageTable) DeleteTuple(loc TupleLocation) error {
	page, err := pt.GetPage(loc.PageID)
	if err != nil {
		return err
	}
	if err := page.MarkDead(loc.SlotOffset); err != nil {
		return err
	}
	return pt.SavePage(page)
}

// ScanItem is one row yielded by a forward scan.
type ScanItem struct {
	Location TupleLocation
	Tuple    Tuple
}

// Scan returns every alive tuple in the table in page order, and within
// each page in ascending slot offset (insertion order). It is not an
// incremental iterator: building the full slice up front keeps the
// fail-fast contract of spec §4.4 trivial (either the whole scan succeeds,
// or it fails and yields nothing), and a fresh Scan call always re-reads
// from the beginning.
func (pt *PageTable) Scan() ([]ScanItem, error) {
	var out []ScanItem
	for pageID := uint32(0); pageID < pt.pageCount; pageID++ {
		page, err := pt.GetPage(pageID)
		if err != nil {
			return nil, err
		}
		tuples, err := page.Iterate(pt.schema)
		if err != nil {
			return nil, err
		}
		for _, pt2 := range tuples {
			out = append(out, ScanItem{
				Location: TupleLocation{PageID: pageID, SlotOffset: pt2.SlotOffset},
				Tuple:    pt2.Tuple,
			})
		}
	}
	return out, nil
}

// Delete removes the page table's backing file from disk.
func (pt *PageTable) Delete() error {
	if err := os.Remove(pt.path); err != nil {
		return ioErr(err, "remove page table %q", pt.path)
	}
	return nil
}
