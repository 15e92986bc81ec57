package mindb

import (
	"regexp"
	"strings"
)

// The SQL surface is explicitly out of scope for this core (spec §1):
// this parser is the minimal named collaborator the REPL needs to drive
// the executor end-to-end, built the same way the teacher's frontend is —
// regex-based statement matching, no tokenizer, no grammar.

// StmtKind identifies which of the six executor operations a Statement
// produces (spec §6, "Executor API consumed from external collaborators").
type StmtKind int

const (
	StmtCreateTable StmtKind = iota
	StmtDropTable
	StmtInsert
	StmtSelect
	StmtUpdate
	StmtDelete
)

// Statement is the parsed form of one SQL statement, ready for the
// executor.
type Statement struct {
	Kind    StmtKind
	Table   string
	Columns []Column       // CREATE TABLE
	Values  []string       // INSERT, still-textual literals (schema needed to parse them)
	Project []string       // SELECT column names, "*" expands at bind time
	Sets    [][2]string    // UPDATE: column name -> textual literal
	Where   *rawPredicate  // optional WHERE clause, still-textual
}

// rawPredicate is a WHERE clause before its column has been resolved
// against a schema and its literal parsed to a typed Value.
type rawPredicate struct {
	Column  string
	OpText  string
	Literal string
}

var (
	createTableRe = regexp.MustCompile(`(?i)^CREATE\s+TABLE\s+(\w+)\s*\((.*)\)\s*;?$`)
	dropTableRe   = regexp.MustCompile(`(?i)^DROP\s+TABLE\s+(\w+)\s*;?$`)
	insertRe      = regexp.MustCompile(`(?i)^INSERT\s+INTO\s+(\w+)\s+VALUES\s*\((.*)\)\s*;?$`)
	selectRe      = regexp.MustCompile(`(?i)^SELECT\s+(.+?)\s+FROM\s+(\w+)(?:\s+WHERE\s+(.+?))?\s*;?$`)
	updateRe      = regexp.MustCompile(`(?i)^UPDATE\s+(\w+)\s+SET\s+(.+?)(?:\s+WHERE\s+(.+?))?\s*;?$`)
	deleteRe      = regexp.MustCompile(`(?i)^DELETE\s+FROM\s+(\w+)(?:\s+WHERE\s+(.+?))?\s*;?$`)
	whereTermRe   = regexp.MustCompile(`(?i)^\s*(\w+)\s*(=|!=|<=|>=|<|>)\s*(.+?)\s*$`)
)

// typeNames maps the CREATE TABLE column type keywords this frontend
// recognizes to their Type.
var typeNames = map[string]Type{
	"bool":   TypeBool,
	"int":    TypeInt32,
	"int32":  TypeInt32,
	"double": TypeDouble,
	"float":  TypeDouble,
	"text":   TypeString,
	"string": TypeString,
}

// Parse matches sql against the six supported statement shapes in turn.
func Parse(sql string) (*Statement, error) {
	sql = strings.TrimSpace(sql)

	if m := createTableRe.FindStringSubmatch(sql); m != nil {
		columns, err := parseColumnDefs(m[2])
		if err != nil {
			return nil, err
		}
		return &Statement{Kind: StmtCreateTable, Table: m[1], Columns: columns}, nil
	}
	if m := dropTableRe.FindStringSubmatch(sql); m != nil {
		return &Statement{Kind: StmtDropTable, Table: m[1]}, nil
	}
	if m := insertRe.FindStringSubmatch(sql); m != nil {
		return &Statement{Kind: StmtInsert, Table: m[1], Values: splitTopLevel(m[2])}, nil
	}
	if m := selectRe.FindStringSubmatch(sql); m != nil {
		project := splitTopLevel(m[1])
		for i := range project {
			project[i] = strings.TrimSpace(project[i])
		}
		pred, err := parseWhere(m[3])
		if err != nil {
			return nil, err
		}
		return &Statement{Kind: StmtSelect, Table: m[2], Project: project, Where: pred}, nil
	}
	if m := updateRe.FindStringSubmatch(sql); m != nil {
		sets, err := parseSets(m[2])
		if err != nil {
			return nil, err
		}
		pred, err := parseWhere(m[3])
		if err != nil {
			return nil, err
		}
		return &Statement{Kind: StmtUpdate, Table: m[1], Sets: sets, Where: pred}, nil
	}
	if m := deleteRe.FindStringSubmatch(sql); m != nil {
		pred, err := parseWhere(m[2])
		if err != nil {
			return nil, err
		}
		return &Statement{Kind: StmtDelete, Table: m[1], Where: pred}, nil
	}

	return nil, parseErr("unrecognized statement: %s", sql)
}

func parseColumnDefs(s string) ([]Column, error) {
	parts := splitTopLevel(s)
	columns := make([]Column, 0, len(parts))
	for _, part := range parts {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) != 2 {
			return nil, parseErr("malformed column definition %q", part)
		}
		typ, ok := typeNames[strings.ToLower(fields[1])]
		if !ok {
			return nil, parseErr("unknown column type %q", fields[1])
		}
		columns = append(columns, Column{Name: fields[0], Typ: typ})
	}
	return columns, nil
}

func parseSets(s string) ([][2]string, error) {
	parts := splitTopLevel(s)
	sets := make([][2]string, 0, len(parts))
	for _, part := range parts {
		eq := strings.Index(part, "=")
		if eq < 0 {
			return nil, parseErr("malformed SET clause %q", part)
		}
		col := strings.TrimSpace(part[:eq])
		lit := strings.TrimSpace(part[eq+1:])
		sets = append(sets, [2]string{col, lit})
	}
	return sets, nil
}

func parseWhere(clause string) (*rawPredicate, error) {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return nil, nil
	}
	m := whereTermRe.FindStringSubmatch(clause)
	if m == nil {
		return nil, parseErr("malformed WHERE clause %q", clause)
	}
	return &rawPredicate{Column: m[1], OpText: m[2], Literal: m[3]}, nil
}

// splitTopLevel splits s on commas that are not inside a single-quoted
// string, so literal strings like 'a, b' survive intact.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	inQuote := false
	last := 0
	for i, r := range s {
		switch r {
		case '\'':
			inQuote = !inQuote
		case '(':
			if !inQuote {
				depth++
			}
		case ')':
			if !inQuote {
				depth--
			}
		case ',':
			if !inQuote && depth == 0 {
				parts = append(parts, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[last:]))
	return parts
}

func opFromText(s string) (Op, error) {
	switch s {
	case "=":
		return OpEq, nil
	case "!=":
		return OpNe, nil
	case "<":
		return OpLt, nil
	case "<=":
		return OpLe, nil
	case ">":
		return OpGt, nil
	case ">=":
		return OpGe, nil
	default:
		return 0, parseErr("unknown operator %q", s)
	}
}

// The bind* helpers below resolve a Statement's still-textual pieces
// (literals, WHERE column, projected "*") against schema, producing typed
// Values and Predicates the executor expects. This is where parse errors from
// malformed literals surface, and where an unknown column name becomes an
// execution error.
func bindPredicate(schema *TableSchema, raw *rawPredicate) (*Predicate, error) {
	if raw == nil {
		return nil, nil
	}
	idx := schema.ColumnIndex(raw.Column)
	if idx < 0 {
		return nil, execErr("unknown column %q in table %s", raw.Column, schema.Name)
	}
	lit, err := ParseLiteral(raw.Literal)
	if err != nil {
		return nil, err
	}
	op, err := opFromText(raw.OpText)
	if err != nil {
		return nil, err
	}
	return &Predicate{ColumnIndex: idx, Op: op, Literal: lit}, nil
}

func bindProjection(schema *TableSchema, project []string) ([]int, error) {
	if len(project) == 1 && strings.TrimSpace(project[0]) == "*" {
		idx := make([]int, len(schema.Columns))
		for i := range idx {
			idx[i] = i
		}
		return idx, nil
	}
	idx := make([]int, len(project))
	for i, name := range project {
		ci := schema.ColumnIndex(name)
		if ci < 0 {
			return nil, execErr("unknown column %q in table %s", name, schema.Name)
		}
		idx[i] = ci
	}
	return idx, nil
}

func bindValues(schema *TableSchema, literals []string) ([]Value, error) {
	if len(literals) != len(schema.Columns) {
		return nil, execErr("INSERT has %d values, table %s has %d columns", len(literals), schema.Name, len(schema.Columns))
	}
	values := make([]Value, len(literals))
	for i, lit := range literals {
		v, err := ParseLiteral(strings.TrimSpace(lit))
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func bindSets(schema *TableSchema, raw [][2]string) ([]SetClause, error) {
	sets := make([]SetClause, len(raw))
	for i, kv := range raw {
		idx := schema.ColumnIndex(kv[0])
		if idx < 0 {
			return nil, execErr("unknown column %q in table %s", kv[0], schema.Name)
		}
		v, err := ParseLiteral(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, err
		}
		sets[i] = SetClause{ColumnIndex: idx, Value: v}
	}
	return sets, nil
}
