package mindb

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPageTableInitAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0.tbl")
	schema := testSchema()

	pt, err := InitPageTable(schema, path)
	if err != nil {
		t.Fatalf("InitPageTable: %v", err)
	}
	if pt.PageCount() != 1 {
		t.Fatalf("page count = %d, want 1", pt.PageCount())
	}

	if _, err := InitPageTable(schema, path); err == nil {
		t.Fatal("expected integrity error re-initializing an existing page table")
	} else if !IsKind(err, KindIntegrity) {
		t.Errorf("expected integrity error kind, got %v", err)
	}

	reloaded, err := LoadPageTable(schema, path)
	if err != nil {
		t.Fatalf("LoadPageTable: %v", err)
	}
	if reloaded.PageCount() != 1 {
		t.Fatalf("reloaded page count = %d, want 1", reloaded.PageCount())
	}
}

func TestPageTableInsertAndScan(t *testing.T) {
	dir := t.TempDir()
	schema := testSchema()
	pt, err := InitPageTable(schema, filepath.Join(dir, "0.tbl"))
	if err != nil {
		t.Fatalf("InitPageTable: %v", err)
	}

	for i := int32(1); i <= 5; i++ {
		if _, err := pt.InsertTuple(testTuple(i, "row")); err != nil {
			t.Fatalf("InsertTuple: %v", err)
		}
	}

	items, err := pt.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("scanned %d rows, want 5", len(items))
	}
	for i, item := range items {
		if item.Tuple.Values[0].I != int32(i+1) {
			t.Errorf("row %d id = %d, want %d", i, item.Tuple.Values[0].I, i+1)
		}
	}
}

func TestPageTableOverwriteInPlaceAndRelocation(t *testing.T) {
	dir := t.TempDir()
	schema := testSchema()
	pt, err := InitPageTable(schema, filepath.Join(dir, "0.tbl"))
	if err != nil {
		t.Fatalf("InitPageTable: %v", err)
	}

	names := []string{"fourteen-chars", "fifteen--chars0", "ten-chars0", "abcde"}
	var locs []TupleLocation
	for i, n := range names {
		loc, err := pt.InsertTuple(testTuple(int32(i+1), n))
		if err != nil {
			t.Fatalf("InsertTuple: %v", err)
		}
		locs = append(locs, loc)
	}

	// Shrinking update: in place, same offset.
	newLoc, err := pt.OverwriteTuple(locs[0], testTuple(1, "smol"))
	if err != nil {
		t.Fatalf("OverwriteTuple (shrink): %v", err)
	}
	if newLoc != locs[0] {
		t.Errorf("shrinking overwrite relocated: got %v, want %v", newLoc, locs[0])
	}

	// Growing update: relocates within the page, to the end.
	longName := "very_very_very_long_replacement_name_that_does_not_fit"
	relocatedLoc, err := pt.OverwriteTuple(locs[0], testTuple(1, longName))
	if err != nil {
		t.Fatalf("OverwriteTuple (grow): %v", err)
	}
	if relocatedLoc.PageID != 0 || relocatedLoc.SlotOffset == locs[0].SlotOffset {
		t.Errorf("growing overwrite should relocate to a new offset, got %v", relocatedLoc)
	}

	items, err := pt.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("scanned %d rows, want 4", len(items))
	}
	if items[len(items)-1].Tuple.Values[1].S != longName {
		t.Errorf("relocated row should appear last in iteration order, got %v", items[len(items)-1])
	}
}

func TestPageTableInsertOverflowsToNewPage(t *testing.T) {
	dir := t.TempDir()
	schema := testSchema()
	pt, err := InitPageTable(schema, filepath.Join(dir, "0.tbl"))
	if err != nil {
		t.Fatalf("InitPageTable: %v", err)
	}

	var lastLoc TupleLocation
	for i := int32(0); ; i++ {
		loc, err := pt.InsertTuple(testTuple(i, "row-of-fixed-length"))
		if err != nil {
			t.Fatalf("InsertTuple: %v", err)
		}
		lastLoc = loc
		if loc.PageID == 1 {
			break
		}
		if i > 10000 {
			t.Fatal("page never overflowed")
		}
	}

	if pt.PageCount() != 2 {
		t.Fatalf("page count = %d, want 2", pt.PageCount())
	}
	if lastLoc.PageID != 1 {
		t.Fatalf("last insert landed on page %d, want 1", lastLoc.PageID)
	}
}

func TestPageTableDeleteThenInsertNeverReusesOffset(t *testing.T) {
	dir := t.TempDir()
	schema := testSchema()
	pt, err := InitPageTable(schema, filepath.Join(dir, "0.tbl"))
	if err != nil {
		t.Fatalf("InitPageTable: %v", err)
	}

	var locs []TupleLocation
	for i := int32(1); i <= 4; i++ {
		loc, err := pt.InsertTuple(testTuple(i, "row"))
		if err != nil {
			t.Fatalf("InsertTuple: %v", err)
		}
		locs = append(locs, loc)
	}

	if err := pt.DeleteTuple(locs[2]); err != nil {
		t.Fatalf("DeleteTuple: %v", err)
	}

	items, err := pt.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("scanned %d rows, want 3", len(items))
	}

	newLoc, err := pt.InsertTuple(testTuple(5, "row"))
	if err != nil {
		t.Fatalf("InsertTuple: %v", err)
	}
	maxOffset := uint16(0)
	for _, l := range locs {
		if l.SlotOffset > maxOffset {
			maxOffset = l.SlotOffset
		}
	}
	if newLoc.SlotOffset <= maxOffset {
		t.Errorf("new insert offset %d should exceed all prior offsets (max %d)", newLoc.SlotOffset, maxOffset)
	}
}

func TestPageTableFileSizeIsPageMultiple(t *testing.T) {
	dir := t.TempDir()
	schema := testSchema()
	path := filepath.Join(dir, "0.tbl")
	pt, err := InitPageTable(schema, path)
	if err != nil {
		t.Fatalf("InitPageTable: %v", err)
	}
	for i := int32(0); i < 500; i++ {
		if _, err := pt.InsertTuple(testTuple(i, "row-of-fixed-length")); err != nil {
			t.Fatalf("InsertTuple: %v", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size()%PageSize != 0 {
		t.Errorf("file size %d is not a multiple of %d", info.Size(), PageSize)
	}
}
