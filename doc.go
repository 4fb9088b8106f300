/*
Package datacol provides a chainable collection type for exploratory data
processing, with eager and lazy evaluation, opt-in per-element error
containment, by-name function application through an explicit registry, and a
column-oriented tabular adapter over Apache Arrow.

A Collection[T] can be thought of as a slice when created from a slice, and
as an iterator when created from an iter.Seq. Transformations (Map, Filter,
FlatMap, Batch, Rolling, and more) are provided as package-level generic
functions; each returns a new Collection in the mode of its input. On an
unstreamed Collection transformations execute immediately; on a streamed one
they are recorded as pending stages and only run when a terminal operation
(Collect, Run, Subscribe) drains the source.

Example of a simple pipeline:

	evens := datacol.Filter(datacol.Range(10), func(x int) bool { return x%2 == 0 })
	doubled := datacol.Map(evens, func(x int) int { return x * 2 })
	vals, err := doubled.Collect() // [0 4 8 12 16]

Fallible transformations fail fast by default: the first element error aborts
the pipeline and is reported by the terminal operation. Safe switches to
containment, where element failures become Empty markers that DropEmpty and
FillEmpty resolve at the end:

	safe := datacol.Safe(datacol.Of(1, 2, 3, 4))
	inv := datacol.SafeMap(safe, func(x int) (float64, error) {
		if x == 2 {
			return 0, fmt.Errorf("bad element")
		}
		return 1 / float64(x), nil
	})
	vals, _ := datacol.DropEmpty(inv).Collect() // [1 0.333... 0.25]

Functions registered by name (Register, RegisterFunc, or RegisterSource for
Go source text compiled at runtime) can be applied with Call on collections
and CallNamed on tables:

	datacol.RegisterFunc("add1", func(x int64) int64 { return x + 1 })
	tbl, _ := datacol.NewTable(datacol.Column{Name: "a", Values: []int64{0, 1, 2}})
	tbl, _ = tbl.CallNamed("add1", "a", "b") // columns a and b

All evaluation is single-threaded and synchronous; collections and tables
are not safe for concurrent use.
*/
package datacol
