package pipeline

import (
	"github.com/longkedev/lk-export-excel/internal/cellref"
	"github.com/longkedev/lk-export-excel/internal/cellvalue"
	"github.com/longkedev/lk-export-excel/internal/governor"
	"github.com/longkedev/lk-export-excel/internal/rowsource"
	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

// EOS is returned by NextRow at end of stream, after any limit has been
// reached, or once a ranged Pipeline has passed its row span. It is the
// same sentinel the underlying Row Source uses.
var EOS = rowsource.EOS

// Pipeline decorates a rowsource.Source with range cropping, offset/limit
// bounds, header consumption, column mapping, filters, and transforms, in
// the fixed execution order: range crop → skip (start/offset) → type
// inference → filters → transforms → mapping → yield.
type Pipeline struct {
	src  rowsource.Source
	opts Options

	minRow, maxRow int
	minCol, maxCol int

	offsetRemaining int
	limitActive     bool
	limit           int
	yielded         int

	headerConsumed bool
	headerNames    []string

	typeInfer bool

	gov            *governor.Governor
	checkInterval  int
	rowsSinceCheck int

	count int64
	done  bool
}

// New builds a Pipeline over an already-opened Source. estimatedSizeBytes
// and isOOXML feed governor.EstimateRows to pick the memory-check interval
// and whether type inference runs at all (disabled above T_noinfer rows).
func New(src rowsource.Source, opts Options, estimatedSizeBytes int64, isOOXML bool) (*Pipeline, error) {
	if opts.Sheet != "" {
		if err := src.Select(opts.Sheet); err != nil {
			return nil, err
		}
	}

	p := &Pipeline{
		src:   src,
		opts:  opts,
		gov:   governor.New(0),
		limit: opts.Limit,
	}
	p.limitActive = opts.Limit > 0
	p.offsetRemaining = opts.Offset

	if opts.Range != "" {
		rng, err := cellref.ParseRange(opts.Range)
		if err != nil {
			return nil, err
		}
		p.minRow, p.maxRow = rng.StartRow, rng.EndRow
		p.minCol, p.maxCol = rng.StartCol, rng.EndCol
	} else {
		p.minRow = opts.effectiveStartRow()
		p.minCol = opts.effectiveStartCol()
	}

	estimated := governor.EstimateRows(estimatedSizeBytes, isOOXML)
	p.typeInfer = governor.ShouldInferTypes(estimated)
	p.checkInterval = governor.CheckInterval(estimated)

	return p, nil
}

// HeaderNames returns the header row's names, populated once the header
// row has been consumed. Returns nil before then or if HasHeader is unset.
func (p *Pipeline) HeaderNames() []string {
	return p.headerNames
}

// Count returns the number of rows yielded so far, excluding the
// consumed header row.
func (p *Pipeline) Count() int64 { return p.count }

// cropRow applies the pipeline's column window, padding missing interior
// and trailing cells with null up to maxCol when a range fixes a width.
func (p *Pipeline) cropRow(cells []cellvalue.Value) []cellvalue.Value {
	if p.minCol <= 1 && p.maxCol == 0 {
		return cells
	}
	start := p.minCol - 1
	end := p.maxCol
	if end == 0 || end > len(cells) {
		if p.maxCol == 0 {
			end = len(cells)
		} else {
			end = p.maxCol
		}
	}
	if start >= end {
		return nil
	}
	out := make([]cellvalue.Value, 0, end-start)
	for i := start; i < end; i++ {
		if i < len(cells) {
			out = append(out, cells[i])
		} else {
			out = append(out, cellvalue.Null())
		}
	}
	return out
}

func headerNamesFromRow(row []cellvalue.Value, mapping map[string]string) []string {
	names := make([]string, len(row))
	for i, cell := range row {
		name := cell.Display()
		if mapped, ok := mapping[name]; ok {
			name = mapped
		}
		names[i] = name
	}
	return names
}

// RowMap projects row against the Pipeline's header names (after column
// mapping), for transforms/filters that want key-indexed access instead of
// positional. Without a header row the map is empty.
func (p *Pipeline) RowMap(row []cellvalue.Value) map[string]cellvalue.Value {
	m := make(map[string]cellvalue.Value, len(row))
	for i, cell := range row {
		if i < len(p.headerNames) {
			m[p.headerNames[i]] = cell
		}
	}
	return m
}

// NextRow pulls, crops, filters, and transforms rows until one survives
// the chain, or returns EOS.
func (p *Pipeline) NextRow() ([]cellvalue.Value, error) {
	if p.done {
		return nil, EOS
	}
	if p.limitActive && p.yielded >= p.limit {
		p.done = true
		return nil, EOS
	}

	for {
		raw, err := p.src.NextRow()
		if err == rowsource.EOS {
			p.done = true
			return nil, EOS
		}
		if err != nil {
			return nil, err
		}

		if raw.Number < p.minRow {
			continue
		}
		if p.maxRow != 0 && raw.Number > p.maxRow {
			p.done = true
			return nil, EOS
		}

		row := p.cropRow(raw.Cells)

		if p.offsetRemaining > 0 {
			p.offsetRemaining--
			continue
		}

		if p.opts.HasHeader && !p.headerConsumed {
			p.headerConsumed = true
			p.headerNames = headerNamesFromRow(row, p.opts.ColumnMapping)
			continue
		}

		if p.typeInfer {
			row = inferRow(row)
		}

		keep := true
		for _, f := range p.opts.Filters {
			if !f(row) {
				keep = false
				break
			}
		}
		if !keep {
			continue
		}

		for _, t := range p.opts.Transforms {
			row = t(row)
		}

		p.count++
		p.yielded++
		p.maybeCheckMemory()
		return row, nil
	}
}

func (p *Pipeline) maybeCheckMemory() {
	p.rowsSinceCheck++
	if p.checkInterval <= 0 || p.rowsSinceCheck < p.checkInterval {
		return
	}
	p.rowsSinceCheck = 0
	if p.gov.Check() == governor.StatusNeedsCleanup {
		p.gov.Reclaim()
	}
}

// Close releases the underlying Source.
func (p *Pipeline) Close() error {
	return p.src.Close()
}

// Chunk accumulates up to size rows into a batch, invokes callback with
// the batch and its 0-based index, and repeats until the stream ends. The
// slice passed to callback is only valid for the duration of the call.
func (p *Pipeline) Chunk(size int, callback func(batch [][]cellvalue.Value, index int) error) error {
	if size < 1 {
		return sheeterr.New(sheeterr.KindUsage, "chunk size must be >= 1")
	}
	batch := make([][]cellvalue.Value, 0, size)
	index := 0
	for {
		row, err := p.NextRow()
		if err == EOS {
			break
		}
		if err != nil {
			return err
		}
		batch = append(batch, row)
		if len(batch) == size {
			if err := callback(batch, index); err != nil {
				return err
			}
			batch = batch[:0]
			index++
		}
	}
	if len(batch) > 0 {
		if err := callback(batch, index); err != nil {
			return err
		}
	}
	return nil
}

// First returns the first yielded row, or ok=false at end of stream.
func (p *Pipeline) First() (row []cellvalue.Value, ok bool, err error) {
	r, err := p.NextRow()
	if err == EOS {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// ToArray fully materializes every remaining row. This is explicitly the
// non-streaming convenience path.
func (p *Pipeline) ToArray() ([][]cellvalue.Value, error) {
	var all [][]cellvalue.Value
	for {
		row, err := p.NextRow()
		if err == EOS {
			return all, nil
		}
		if err != nil {
			return all, err
		}
		all = append(all, row)
	}
}
