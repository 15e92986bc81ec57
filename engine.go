package mindb

import "fmt"

// Engine ties the parser's textual Statement to a bound Executor call and
// formats the result for display — the thin seam between the out-of-scope
// SQL frontend and the in-scope storage core.
type Engine struct {
	executor *Executor
	catalog  *Catalog
}

func NewEngine(catalog *Catalog) *Engine {
	return &Engine{executor: NewExecutor(catalog), catalog: catalog}
}

// Result is exactly one of: a SELECT's (column names, rows), an affected
// row count for INSERT/UPDATE/DELETE, or nothing for CREATE/DROP (spec §6).
type Result struct {
	Columns      []string
	Rows         []Tuple
	AffectedRows int
	IsSelect     bool
	HasCount     bool
}

func (r Result) String() string {
	switch {
	case r.IsSelect:
		if len(r.Rows) == 0 {
			return "(0 rows)"
		}
		out := fmt.Sprintf("%s\n", joinNames(r.Columns))
		for _, row := range r.Rows {
			out += fmt.Sprintf("%s\n", joinValues(row.Values))
		}
		return out + fmt.Sprintf("(%d rows)", len(r.Rows))
	case r.HasCount:
		return fmt.Sprintf("OK (%d rows affected)", r.AffectedRows)
	default:
		return "OK"
	}
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += " | "
		}
		out += n
	}
	return out
}

func joinValues(values []Value) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += " | "
		}
		out += v.String()
	}
	return out
}

// Execute parses sql and runs it through the executor, producing a
// display-ready Result.
func (e *Engine) Execute(sql string) (Result, error) {
	stmt, err := Parse(sql)
	if err != nil {
		return Result{}, err
	}
	return e.ExecuteStatement(stmt)
}

// ExecuteStatement runs an already-parsed Statement. Exposed separately so
// callers that build Statements programmatically (tests, future
// frontends) can skip the regex layer entirely.
func (e *Engine) ExecuteStatement(stmt *Statement) (Result, error) {
	switch stmt.Kind {
	case StmtCreateTable:
		if err := e.executor.CreateTable(stmt.Table, stmt.Columns); err != nil {
			return Result{}, err
		}
		return Result{}, nil

	case StmtDropTable:
		if err := e.executor.DropTable(stmt.Table); err != nil {
			return Result{}, err
		}
		return Result{}, nil

	case StmtInsert:
		schema, err := e.catalog.Table(stmt.Table)
		if err != nil {
			return Result{}, err
		}
		values, err := bindValues(schema, stmt.Values)
		if err != nil {
			return Result{}, err
		}
		if _, err := e.executor.Insert(stmt.Table, values); err != nil {
			return Result{}, err
		}
		return Result{HasCount: true, AffectedRows: 1}, nil

	case StmtSelect:
		schema, err := e.catalog.Table(stmt.Table)
		if err != nil {
			return Result{}, err
		}
		projIdx, err := bindProjection(schema, stmt.Project)
		if err != nil {
			return Result{}, err
		}
		pred, err := bindPredicate(schema, stmt.Where)
		if err != nil {
			return Result{}, err
		}
		names, rows, err := e.executor.Select(stmt.Table, projIdx, pred)
		if err != nil {
			return Result{}, err
		}
		return Result{IsSelect: true, Columns: names, Rows: rows}, nil

	case StmtUpdate:
		schema, err := e.catalog.Table(stmt.Table)
		if err != nil {
			return Result{}, err
		}
		sets, err := bindSets(schema, stmt.Sets)
		if err != nil {
			return Result{}, err
		}
		pred, err := bindPredicate(schema, stmt.Where)
		if err != nil {
			return Result{}, err
		}
		n, err := e.executor.Update(stmt.Table, sets, pred)
		if err != nil {
			return Result{}, err
		}
		return Result{HasCount: true, AffectedRows: n}, nil

	case StmtDelete:
		schema, err := e.catalog.Table(stmt.Table)
		if err != nil {
			return Result{}, err
		}
		pred, err := bindPredicate(schema, stmt.Where)
		if err != nil {
			return Result{}, err
		}
		n, err := e.executor.Delete(stmt.Table, pred)
		if err != nil {
			return Result{}, err
		}
		return Result{HasCount: true, AffectedRows: n}, nil

	default:
		return Result{}, execErr("unhandled statement kind %d", stmt.Kind)
	}
}
