package mindb

import (
	"path/filepath"
	"testing"
)

func testColumns() []Column {
	return []Column{
		{Name: "id", Typ: TypeInt32},
		{Name: "name", Typ: TypeString},
		{Name: "height", Typ: TypeDouble},
		{Name: "is_fox", Typ: TypeBool},
	}
}

func TestCatalogInitCreateAndReload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	cat, err := InitCatalog(dir)
	if err != nil {
		t.Fatalf("InitCatalog: %v", err)
	}

	if _, err := InitCatalog(dir); err == nil {
		t.Fatal("expected error re-initializing an existing storage directory")
	}

	schema, err := cat.CreateTable("test", testColumns())
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if schema.ID != 0 {
		t.Errorf("first table id = %d, want 0", schema.ID)
	}

	second, err := cat.CreateTable("other", testColumns())
	if err != nil {
		t.Fatalf("CreateTable second: %v", err)
	}
	if second.ID != 1 {
		t.Errorf("second table id = %d, want 1", second.ID)
	}

	if _, err := cat.CreateTable("test", testColumns()); err == nil {
		t.Fatal("expected error creating a duplicate table name")
	}

	reloaded, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if got, err := reloaded.Table("test"); err != nil {
		t.Fatalf("Table(test): %v", err)
	} else if len(got.Columns) != 4 {
		t.Errorf("reloaded schema has %d columns, want 4", len(got.Columns))
	}
	if _, err := reloaded.Table("other"); err != nil {
		t.Fatalf("Table(other): %v", err)
	}
}

func TestCatalogDropTableRemovesFileAndEntry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	cat, err := InitCatalog(dir)
	if err != nil {
		t.Fatalf("InitCatalog: %v", err)
	}
	if _, err := cat.CreateTable("test", testColumns()); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	if err := cat.DropTable("test"); err != nil {
		t.Fatalf("DropTable: %v", err)
	}

	// spec §8 scenario 5: DROP TABLE then SELECT fails with "does not exist".
	if _, err := cat.Table("test"); err == nil {
		t.Fatal("expected error selecting from a dropped table")
	} else if !IsKind(err, KindExecution) {
		t.Errorf("expected execution error kind, got %v", err)
	}

	reloaded, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if _, err := reloaded.Table("test"); err == nil {
		t.Fatal("dropped table should not reappear after reload")
	}

	if err := cat.DropTable("test"); err == nil {
		t.Fatal("expected error dropping an already-dropped table")
	}
}

func TestCatalogOpenPageTable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	cat, err := InitCatalog(dir)
	if err != nil {
		t.Fatalf("InitCatalog: %v", err)
	}
	if _, err := cat.CreateTable("test", testColumns()); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	schema, pt, err := cat.OpenPageTable("test")
	if err != nil {
		t.Fatalf("OpenPageTable: %v", err)
	}
	if schema.Name != "test" {
		t.Errorf("schema.Name = %q, want test", schema.Name)
	}
	if pt.PageCount() != 1 {
		t.Errorf("PageCount = %d, want 1", pt.PageCount())
	}

	if _, _, err := cat.OpenPageTable("missing"); err == nil {
		t.Fatal("expected error opening a nonexistent table")
	}
}
