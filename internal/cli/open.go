package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/longkedev/lk-export-excel/internal/pipeline"
	"github.com/longkedev/lk-export-excel/internal/probe"
	"github.com/longkedev/lk-export-excel/internal/rowsink"
	"github.com/longkedev/lk-export-excel/internal/rowsource"
	"github.com/longkedev/lk-export-excel/internal/sheeterr"
	"github.com/longkedev/lk-export-excel/internal/stats"
)

// addCommonFlags registers the per-verb flags shared by read and convert.
// The write verb does not register them.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("sheet", "", "Sheet name or index (OOXML only)")
	cmd.Flags().String("range", "", "Cell range, e.g. A1:C10")
	cmd.Flags().Int("limit", 0, "Maximum rows to yield (0 = unlimited)")
	cmd.Flags().Int("offset", 0, "Rows to skip after any start position")
	cmd.Flags().Bool("has-header", false, "Treat the first row as a header, excluded from output")
}

func pipelineOptionsFromCmd(cmd *cobra.Command) pipeline.Options {
	sheet, _ := cmd.Flags().GetString("sheet")
	rangeStr, _ := cmd.Flags().GetString("range")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	hasHeader, _ := cmd.Flags().GetBool("has-header")
	return pipeline.Options{
		Sheet:     sheet,
		Range:     rangeStr,
		Limit:     limit,
		Offset:    offset,
		HasHeader: hasHeader,
	}
}

// openSource probes path and opens the matching Row Source. formatOverride,
// when non-empty, forces the format instead of trusting the probe.
func openSource(path, formatOverride string) (rowsource.Source, bool, *stats.Stats, error) {
	var format probe.Format
	if formatOverride != "" {
		f, err := normalizeFormat(formatOverride)
		if err != nil {
			return nil, false, nil, err
		}
		format = f
	} else {
		result, err := probe.Probe(path)
		if err != nil {
			return nil, false, nil, err
		}
		format = result.Format
	}

	st := stats.New()
	switch format {
	case probe.FormatXLSX:
		src, err := rowsource.OpenOOXML(path, rowsource.Window{}, st)
		return src, true, st, err
	case probe.FormatDelimitedText:
		src, err := rowsource.OpenDelimited(path, rowsource.Window{})
		return src, false, st, err
	case probe.FormatJSONL:
		src, err := rowsource.OpenJSONL(path, rowsource.Window{})
		return src, false, st, err
	default:
		return nil, false, nil, sheeterr.ErrFormatUnknown
	}
}

// fileSize stats path for the Memory Governor's row estimate; zero on
// failure, which degrades to the smallest check interval rather than
// failing the command.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// destinationFormat resolves a write/convert destination's format. A
// destination path usually doesn't exist yet, so unlike openSource this
// cannot probe content and falls back to the file extension.
func destinationFormat(path, formatOverride string) (probe.Format, error) {
	if formatOverride != "" {
		return normalizeFormat(formatOverride)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "xlsx":
		return probe.FormatXLSX, nil
	case "csv", "tsv", "txt":
		return probe.FormatDelimitedText, nil
	case "json", "jsonl", "ndjson":
		return probe.FormatJSONL, nil
	default:
		return probe.FormatUnknown, sheeterr.ErrFormatUnknown
	}
}

func normalizeFormat(formatOverride string) (probe.Format, error) {
	switch formatOverride {
	case "xlsx":
		return probe.FormatXLSX, nil
	case "csv", "tsv", "delimited-text":
		return probe.FormatDelimitedText, nil
	case "jsonl", "json", "ndjson":
		return probe.FormatJSONL, nil
	default:
		return probe.FormatUnknown, sheeterr.ErrFormatUnknown
	}
}

// displayFormat normalizes the shared --format flag (a file-format
// override: xlsx/csv/jsonl) into a rendering format output.Print and
// output.FormatRows understand (json/csv/tsv). The flag's file-format
// values have no rendering equivalent, so they fall back to json.
func displayFormat(formatOverride string) string {
	switch formatOverride {
	case "", "xlsx", "jsonl", "json", "ndjson":
		return "json"
	case "tsv":
		return "tsv"
	default:
		return formatOverride
	}
}

// openSink opens the Row Sink matching format at path.
func openSink(path string, format probe.Format) (rowsink.Sink, error) {
	switch format {
	case probe.FormatXLSX:
		return rowsink.OpenOOXML(path, rowsink.DefaultConfig())
	case probe.FormatDelimitedText:
		return rowsink.OpenDelimited(path)
	case probe.FormatJSONL:
		return rowsink.OpenJSONL(path)
	default:
		return nil, sheeterr.ErrFormatUnknown
	}
}
