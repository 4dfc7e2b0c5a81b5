package pipeline

import (
	"github.com/longkedev/lk-export-excel/internal/cellref"
	"github.com/longkedev/lk-export-excel/internal/cellvalue"
)

// Row returns the n-th yielded row (1-based), consuming every row up to
// and including it. Like ToArray, this is a non-streaming convenience:
// callers that need many individual rows should iterate NextRow directly.
func (p *Pipeline) Row(n int) (row []cellvalue.Value, ok bool, err error) {
	if n < 1 {
		return nil, false, nil
	}
	for i := 1; i <= n; i++ {
		row, err = p.NextRow()
		if err == EOS {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
	}
	return row, true, nil
}

// Column collects the k-th cell (1-based) of every remaining row.
func (p *Pipeline) Column(k int) ([]cellvalue.Value, error) {
	if k < 1 {
		return nil, nil
	}
	var col []cellvalue.Value
	for {
		row, err := p.NextRow()
		if err == EOS {
			return col, nil
		}
		if err != nil {
			return col, err
		}
		if k-1 < len(row) {
			col = append(col, row[k-1])
		} else {
			col = append(col, cellvalue.Null())
		}
	}
}

// Cell returns the value at a spreadsheet address like "A1", counted
// relative to the rows and columns this Pipeline yields (post-crop), not
// the underlying source's absolute coordinates.
func (p *Pipeline) Cell(addr string) (cellvalue.Value, bool, error) {
	col, row, err := cellref.ParseCellAddress(addr)
	if err != nil {
		return cellvalue.Value{}, false, err
	}
	r, ok, err := p.Row(row)
	if err != nil || !ok {
		return cellvalue.Value{}, false, err
	}
	if col-1 >= len(r) {
		return cellvalue.Null(), true, nil
	}
	return r[col-1], true, nil
}
