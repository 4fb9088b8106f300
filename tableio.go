package datacol

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	arrowcsv "github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ReadCSV loads a CSV file with a header row into a Table, inferring column
// types from the data.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	mem := memory.NewGoAllocator()
	r := arrowcsv.NewInferringReader(f,
		arrowcsv.WithAllocator(mem),
		arrowcsv.WithHeader(true),
		arrowcsv.WithChunk(1024),
	)
	defer r.Release()

	var recs []arrow.Record
	for r.Next() {
		rec := r.Record()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	if len(recs) == 0 {
		return nil, invalidErr("CSV file %q has no rows", path)
	}
	tbl := array.NewTableFromRecords(r.Schema(), recs)
	for _, rec := range recs {
		rec.Release()
	}
	return &Table{tbl: tbl, mem: mem}, nil
}

// WriteCSV writes the table to a CSV file with a header row. Null cells are
// written as empty fields.
func (t *Table) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	names := t.ColumnNames()
	if err := w.Write(names); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	columns := make([][]any, len(names))
	for i := range names {
		vals, err := t.columnValues(i)
		if err != nil {
			return err
		}
		columns[i] = vals
	}
	row := make([]string, len(names))
	for r := 0; r < t.NumRows(); r++ {
		for ci := range names {
			if v := columns[ci][r]; v != nil {
				row[ci] = fmt.Sprintf("%v", v)
			} else {
				row[ci] = ""
			}
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

// ReadParquet loads a Parquet file into a Table.
func ReadParquet(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	mem := memory.NewGoAllocator()
	ar, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}
	tbl, err := ar.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	return &Table{tbl: tbl, mem: mem}, nil
}

// WriteParquet writes the table to a snappy-compressed Parquet file.
func (t *Table) WriteParquet(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer f.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	w, err := pqarrow.NewFileWriter(t.tbl.Schema(), f, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	defer w.Close()

	if err := w.WriteTable(t.tbl, t.tbl.NumRows()); err != nil {
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	return nil
}
