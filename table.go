package datacol

import (
	"fmt"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Table adapts a column-oriented Arrow table to the same by-name function
// application the Collection offers, targeting named columns instead of
// whole elements. The table storage itself is Arrow's; Table only reads
// columns, applies functions element-wise down the rows, and writes result
// columns back.
//
// Tables are immutable: every application returns a new Table sharing the
// untouched columns. A Table is not safe for concurrent use.
type Table struct {
	tbl arrow.Table
	mem memory.Allocator
}

// Column names a column and its values for NewTable. Values must be one of
// []int64, []float64, []string, []bool or []any (nil entries become nulls).
type Column struct {
	Name   string
	Values any
}

// Row is one table row keyed by column name, as produced by Rows. Null cells
// are nil.
type Row = map[string]any

// FromArrow wraps an existing Arrow table.
func FromArrow(tbl arrow.Table) *Table {
	return &Table{tbl: tbl, mem: memory.NewGoAllocator()}
}

// NewTable builds a Table from named columns. All columns must have the same
// length.
func NewTable(cols ...Column) (*Table, error) {
	if len(cols) == 0 {
		return nil, invalidErr("a table needs at least one column")
	}
	mem := memory.NewGoAllocator()
	fields := make([]arrow.Field, 0, len(cols))
	arrCols := make([]arrow.Column, 0, len(cols))
	length := -1
	for _, col := range cols {
		vals, err := anyValues(col)
		if err != nil {
			return nil, err
		}
		if length == -1 {
			length = len(vals)
		} else if len(vals) != length {
			return nil, invalidErr("column %q has length %d, want %d", col.Name, len(vals), length)
		}
		arr, err := buildArray(mem, col.Name, vals)
		if err != nil {
			return nil, err
		}
		field := arrow.Field{Name: col.Name, Type: arr.DataType(), Nullable: true}
		fields = append(fields, field)
		arrCols = append(arrCols, arrow.NewColumnFromArr(field, arr))
	}
	schema := arrow.NewSchema(fields, nil)
	return &Table{tbl: array.NewTable(schema, arrCols, int64(length)), mem: mem}, nil
}

// Arrow returns the underlying Arrow table.
func (t *Table) Arrow() arrow.Table {
	return t.tbl
}

// Schema returns the table schema.
func (t *Table) Schema() *arrow.Schema {
	return t.tbl.Schema()
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return int(t.tbl.NumRows())
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return int(t.tbl.NumCols())
}

// ColumnNames returns the column names in schema order.
func (t *Table) ColumnNames() []string {
	fields := t.tbl.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// Values returns the named column's cells in row order, nulls as nil.
func (t *Table) Values(name string) ([]any, error) {
	idx := t.columnIndex(name)
	if idx < 0 {
		return nil, lookupErr("column", name)
	}
	return t.columnValues(idx)
}

// Apply reads column in, applies fn element-wise in row-index order and
// writes the results to column out, overwriting it if present and appending
// it otherwise. All other columns and the row order are unchanged; out may
// equal in for an in-place column update. Null input cells short-circuit to
// null output cells without invoking fn.
//
// An error from fn aborts the application (no table is returned); use
// SafeApply for containment.
func (t *Table) Apply(in, out string, fn UnaryFunc) (*Table, error) {
	return t.apply(in, out, fn, false)
}

// SafeApply is Apply with containment layered on: cells for which fn fails
// (or panics) become nulls in the output column instead of aborting.
func (t *Table) SafeApply(in, out string, fn UnaryFunc) (*Table, error) {
	return t.apply(in, out, fn, true)
}

// CallNamed resolves fnName against the function registry and applies it
// from column in to column out. Omitting out writes back to in. Chained
// calls compose left to right, each output column fully materialized before
// the next call reads anything.
func (t *Table) CallNamed(fnName, in string, out ...string) (*Table, error) {
	fn, err := Resolve(fnName)
	if err != nil {
		return nil, err
	}
	return t.Apply(in, outName(in, out), fn)
}

// SafeCallNamed is the containment-aware CallNamed.
func (t *Table) SafeCallNamed(fnName, in string, out ...string) (*Table, error) {
	fn, err := Resolve(fnName)
	if err != nil {
		return nil, err
	}
	return t.SafeApply(in, outName(in, out), fn)
}

func outName(in string, out []string) string {
	if len(out) > 0 {
		return out[0]
	}
	return in
}

func (t *Table) apply(in, out string, fn UnaryFunc, contained bool) (*Table, error) {
	idx := t.columnIndex(in)
	if idx < 0 {
		return nil, lookupErr("column", in)
	}
	vals, err := t.columnValues(idx)
	if err != nil {
		return nil, err
	}
	outVals := make([]any, len(vals))
	for i, v := range vals {
		if v == nil {
			continue
		}
		res, ferr := applyCell(fn, v)
		if ferr != nil {
			if !contained {
				return nil, &ElementError{Index: i, Err: ferr}
			}
			continue
		}
		outVals[i] = res
	}
	arr, err := buildArray(t.mem, out, outVals)
	if err != nil {
		return nil, err
	}
	return t.withColumn(out, arr), nil
}

func applyCell(fn UnaryFunc, v any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("panic: %v", r)
			}
		}
	}()
	return fn(v)
}

// withColumn returns a new table with arr as the named column, replacing an
// existing column of that name or appending a new one.
func (t *Table) withColumn(name string, arr arrow.Array) *Table {
	schema := t.tbl.Schema()
	n := int(t.tbl.NumCols())
	field := arrow.Field{Name: name, Type: arr.DataType(), Nullable: true}

	fields := make([]arrow.Field, 0, n+1)
	cols := make([]arrow.Column, 0, n+1)
	replaced := false
	for i := 0; i < n; i++ {
		if schema.Field(i).Name == name {
			fields = append(fields, field)
			cols = append(cols, arrow.NewColumnFromArr(field, arr))
			replaced = true
			continue
		}
		fields = append(fields, schema.Field(i))
		cols = append(cols, *t.tbl.Column(i))
	}
	if !replaced {
		fields = append(fields, field)
		cols = append(cols, arrow.NewColumnFromArr(field, arr))
	}
	return &Table{
		tbl: array.NewTable(arrow.NewSchema(fields, nil), cols, t.tbl.NumRows()),
		mem: t.mem,
	}
}

// Rows materializes the table as a Collection of Row maps, in row order.
func (t *Table) Rows() *Collection[Row] {
	names := t.ColumnNames()
	columns := make([][]any, len(names))
	for i := range names {
		vals, err := t.columnValues(i)
		if err != nil {
			return &Collection[Row]{err: err}
		}
		columns[i] = vals
	}
	rows := make([]Row, t.NumRows())
	for r := range rows {
		row := make(Row, len(names))
		for ci, name := range names {
			row[name] = columns[ci][r]
		}
		rows[r] = row
	}
	return &Collection[Row]{items: rows}
}

// ToTable builds a Table from a Collection of Row maps. Column order follows
// names when given, otherwise the first row's keys sorted. Missing keys
// become nulls.
func ToTable(c *Collection[Row], names ...string) (*Table, error) {
	rows, err := c.Collect()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, invalidErr("cannot build a table from an empty collection")
	}
	if len(names) == 0 {
		for name := range rows[0] {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	cols := make([]Column, len(names))
	for i, name := range names {
		vals := make([]any, len(rows))
		for r, row := range rows {
			vals[r] = row[name]
		}
		cols[i] = Column{Name: name, Values: vals}
	}
	return NewTable(cols...)
}

func (t *Table) columnIndex(name string) int {
	indices := t.tbl.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return -1
	}
	return indices[0]
}

// columnValues reads one column into Go values, nulls as nil.
func (t *Table) columnValues(idx int) ([]any, error) {
	col := t.tbl.Column(idx)
	out := make([]any, 0, t.NumRows())
	for _, chunk := range col.Data().Chunks() {
		vals, err := chunkValues(chunk)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name(), err)
		}
		out = append(out, vals...)
	}
	return out, nil
}

func chunkValues(arr arrow.Array) ([]any, error) {
	out := make([]any, arr.Len())
	for i := range out {
		if arr.IsNull(i) {
			continue
		}
		switch a := arr.(type) {
		case *array.Int64:
			out[i] = a.Value(i)
		case *array.Int32:
			out[i] = int64(a.Value(i))
		case *array.Float64:
			out[i] = a.Value(i)
		case *array.Float32:
			out[i] = float64(a.Value(i))
		case *array.String:
			out[i] = a.Value(i)
		case *array.Boolean:
			out[i] = a.Value(i)
		default:
			return nil, invalidErr("unsupported column type %s", arr.DataType())
		}
	}
	return out, nil
}

func anyValues(col Column) ([]any, error) {
	switch vs := col.Values.(type) {
	case []any:
		return vs, nil
	case []int64:
		out := make([]any, len(vs))
		for i, v := range vs {
			out[i] = v
		}
		return out, nil
	case []float64:
		out := make([]any, len(vs))
		for i, v := range vs {
			out[i] = v
		}
		return out, nil
	case []string:
		out := make([]any, len(vs))
		for i, v := range vs {
			out[i] = v
		}
		return out, nil
	case []bool:
		out := make([]any, len(vs))
		for i, v := range vs {
			out[i] = v
		}
		return out, nil
	default:
		return nil, invalidErr("unsupported column values %T for %q", col.Values, col.Name)
	}
}

// buildArray builds an Arrow array from Go values, inferring the type from
// the first non-nil value; nil values become nulls. Ints widen to int64.
func buildArray(mem memory.Allocator, name string, vals []any) (arrow.Array, error) {
	var sample any
	for _, v := range vals {
		if v != nil {
			sample = v
			break
		}
	}
	switch sample.(type) {
	case int64, int, nil:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for i, v := range vals {
			switch n := v.(type) {
			case nil:
				b.AppendNull()
			case int64:
				b.Append(n)
			case int:
				b.Append(int64(n))
			default:
				return nil, cellTypeErr(name, i, sample, v)
			}
		}
		return b.NewArray(), nil
	case float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for i, v := range vals {
			switch n := v.(type) {
			case nil:
				b.AppendNull()
			case float64:
				b.Append(n)
			default:
				return nil, cellTypeErr(name, i, sample, v)
			}
		}
		return b.NewArray(), nil
	case string:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for i, v := range vals {
			switch s := v.(type) {
			case nil:
				b.AppendNull()
			case string:
				b.Append(s)
			default:
				return nil, cellTypeErr(name, i, sample, v)
			}
		}
		return b.NewArray(), nil
	case bool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				b.AppendNull()
			case bool:
				b.Append(x)
			default:
				return nil, cellTypeErr(name, i, sample, v)
			}
		}
		return b.NewArray(), nil
	default:
		return nil, invalidErr("unsupported cell type %T in column %q", sample, name)
	}
}

func cellTypeErr(name string, i int, want, got any) error {
	return invalidErr("column %q row %d: mixed cell types %T and %T", name, i, want, got)
}
