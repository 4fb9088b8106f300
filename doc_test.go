package datacol_test

import (
	"fmt"
	"strconv"
	"strings"

	"datacol"
)

// Example demonstrates a pipeline that parses readings from raw log lines,
// containing per-line failures instead of aborting on them.
func Example() {
	lines := datacol.FromSlice([]string{
		"reading:10",
		"reading:25",
		"garbage",
		"reading:31",
		"reading:notanumber",
		"reading:4",
	})

	// Containment: lines that fail to parse become Empty markers.
	parsed := datacol.SafeMap(datacol.Safe(lines), func(line string) (int, error) {
		raw, ok := strings.CutPrefix(line, "reading:")
		if !ok {
			return 0, fmt.Errorf("not a reading: %q", line)
		}
		return strconv.Atoi(raw)
	})

	// Keep the readings that parsed, then the interesting ones.
	readings := datacol.DropEmpty(parsed)
	high := datacol.Filter(readings, func(r int) bool { return r >= 10 })

	// Group into batches of two for downstream processing.
	batches, err := datacol.Batch(high, 2).Collect()
	if err != nil {
		fmt.Println("pipeline error:", err)
		return
	}
	for _, b := range batches {
		fmt.Println(b)
	}

	// Output:
	// [10 25]
	// [31]
}

// ExampleTable_CallNamed applies registered functions column-wise on an
// Arrow-backed table.
func ExampleTable_CallNamed() {
	datacol.RegisterFunc("add1", func(x int64) int64 { return x + 1 })
	datacol.RegisterFunc("mul2", func(x int64) int64 { return x * 2 })
	defer datacol.Unregister("add1")
	defer datacol.Unregister("mul2")

	tbl, err := datacol.NewTable(datacol.Column{Name: "a", Values: []int64{0, 1, 2, 3, 4}})
	if err != nil {
		fmt.Println("table error:", err)
		return
	}

	tbl, _ = tbl.CallNamed("add1", "a", "b")
	tbl, _ = tbl.CallNamed("mul2", "b", "c")

	for _, name := range tbl.ColumnNames() {
		vals, _ := tbl.Values(name)
		fmt.Println(name, vals)
	}

	// Output:
	// a [0 1 2 3 4]
	// b [1 2 3 4 5]
	// c [2 4 6 8 10]
}
