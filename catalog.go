package mindb

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/vanutp/relational-db/internal/dblog"
)

const metadataFileName = "metadata"

// Catalog is the process-wide mapping from table name to schema plus the
// next table id, persisted to <storage_dir>/metadata. It is mutated only
// by CreateTable/DropTable; INSERT/UPDATE/DELETE/SELECT never touch it.
type Catalog struct {
	dir         string
	tables      map[string]*TableSchema
	nextTableID uint32
	log         zerolog.Logger
}

// InitCatalog creates a brand-new storage directory and an empty metadata
// file. Fails if dir already exists.
func InitCatalog(dir string) (*Catalog, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, integrityErr("storage directory %q already exists", dir)
	} else if !os.IsNotExist(err) {
		return nil, ioErr(err, "stat storage directory %q", dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, ioErr(err, "create storage directory %q", dir)
	}

	c := &Catalog{dir: dir, tables: make(map[string]*TableSchema), log: dblog.L()}
	if err := c.writeMetadata(); err != nil {
		return nil, err
	}
	c.log.Info().Str("dir", dir).Msg("catalog initialized")
	return c, nil
}

// LoadCatalog reloads a catalog from an existing storage directory. Fails
// if dir is absent.
func LoadCatalog(dir string) (*Catalog, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, ioErr(err, "storage directory %q is missing", dir)
	}

	c := &Catalog{dir: dir, tables: make(map[string]*TableSchema), log: dblog.L()}
	if err := c.readMetadata(); err != nil {
		return nil, err
	}
	c.log.Info().Str("dir", dir).Int("tables", len(c.tables)).Msg("catalog loaded")
	return c, nil
}

func (c *Catalog) metadataPath() string {
	return filepath.Join(c.dir, metadataFileName)
}

func (c *Catalog) tablePath(id uint32) string {
	return filepath.Join(c.dir, fmt.Sprintf("%d.tbl", id))
}

// writeMetadata serializes the catalog to its binary metadata file (spec §6).
func (c *Catalog) writeMetadata() error {
	var buf bytes.Buffer
	if err := writeU32(&buf, c.nextTableID); err != nil {
		return err
	}
	if err := writeU32(&buf, uint32(len(c.tables))); err != nil {
		return err
	}
	for _, schema := range c.tables {
		if err := writeU32(&buf, schema.ID); err != nil {
			return err
		}
		if err := writeString(&buf, schema.Name); err != nil {
			return err
		}
		if err := writeU32(&buf, uint32(len(schema.Columns))); err != nil {
			return err
		}
		for _, col := range schema.Columns {
			if err := writeString(&buf, col.Name); err != nil {
				return err
			}
			if err := writeU8(&buf, uint8(col.Typ)); err != nil {
				return err
			}
		}
	}

	tmp := c.metadataPath() + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return ioErr(err, "write metadata")
	}
	if err := os.Rename(tmp, c.metadataPath()); err != nil {
		os.Remove(tmp)
		return ioErr(err, "rename metadata into place")
	}
	return nil
}

func (c *Catalog) readMetadata() error {
	data, err := os.ReadFile(c.metadataPath())
	if err != nil {
		return ioErr(err, "read metadata")
	}
	r := bytes.NewReader(data)

	nextID, err := readU32(r)
	if err != nil {
		return err
	}
	tableCount, err := readU32(r)
	if err != nil {
		return err
	}

	tables := make(map[string]*TableSchema, tableCount)
	for i := uint32(0); i < tableCount; i++ {
		id, err := readU32(r)
		if err != nil {
			return err
		}
		name, err := readString(r)
		if err != nil {
			return err
		}
		colCount, err := readU32(r)
		if err != nil {
			return err
		}
		columns := make([]Column, colCount)
		for j := uint32(0); j < colCount; j++ {
			colName, err := readString(r)
			if err != nil {
				return err
			}
			dtype, err := readU8(r)
			if err != nil {
				return err
			}
			columns[j] = Column{Name: colName, Typ: Type(dtype)}
		}
		tables[name] = &TableSchema{ID: id, Name: name, Columns: columns}
	}

	c.nextTableID = nextID
	c.tables = tables
	return nil
}

// Table returns the schema for name, or an execution error if it does not exist.
func (c *Catalog) Table(name string) (*TableSchema, error) {
	schema, ok := c.tables[name]
	if !ok {
		return nil, execErr("table %s does not exist", name)
	}
	return schema, nil
}

// CreateTable assigns a new table id, initializes its page table file, and
// persists the updated catalog.
func (c *Catalog) CreateTable(name string, columns []Column) (*TableSchema, error) {
	if _, exists := c.tables[name]; exists {
		return nil, execErr("table %s already exists", name)
	}
	if err := validateColumns(columns); err != nil {
		return nil, err
	}

	schema := &TableSchema{ID: c.nextTableID, Name: name, Columns: columns}

	if _, err := InitPageTable(schema, c.tablePath(schema.ID)); err != nil {
		return nil, err
	}

	c.tables[name] = schema
	c.nextTableID++

	if err := c.writeMetadata(); err != nil {
		delete(c.tables, name)
		c.nextTableID--
		return nil, err
	}

	c.log.Info().Str("table", name).Uint32("id", schema.ID).Msg("table created")
	return schema, nil
}

// DropTable deletes the table's page table file and removes it from the
// catalog.
func (c *Catalog) DropTable(name string) error {
	schema, ok := c.tables[name]
	if !ok {
		return execErr("table %s does not exist", name)
	}

	pt, err := LoadPageTable(schema, c.tablePath(schema.ID))
	if err != nil {
		return err
	}
	if err := pt.Delete(); err != nil {
		return err
	}

	delete(c.tables, name)
	if err := c.writeMetadata(); err != nil {
		return err
	}
	c.log.Info().Str("table", name).Msg("table dropped")
	return nil
}

// OpenPageTable loads the page table backing name, for use by the executor.
func (c *Catalog) OpenPageTable(name string) (*TableSchema, *PageTable, error) {
	schema, err := c.Table(name)
	if err != nil {
		return nil, nil, err
	}
	pt, err := LoadPageTable(schema, c.tablePath(schema.ID))
	if err != nil {
		return nil, nil, err
	}
	return schema, pt, nil
}
