package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/longkedev/lk-export-excel/internal/cellvalue"
	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

var writeCmd = &cobra.Command{
	Use:   "write <path>",
	Short: "Write rows to a spreadsheet",
	Long:  "Read a JSON array of rows from stdin (each row a JSON array of scalars) and write them to path as OOXML, delimited-text, or JSONL.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := ResolveFilePath(GetBasepathFromCmd(cmd), args[0])
		if err != nil {
			return err
		}

		format, err := destinationFormat(path, GetFormatFromCmd(cmd))
		if err != nil {
			return err
		}

		rows, err := decodeRowsFromStdin(cmd.InOrStdin())
		if err != nil {
			return err
		}

		sink, err := openSink(path, format)
		if err != nil {
			return err
		}

		for _, row := range rows {
			if err := sink.WriteRow(row); err != nil {
				sink.Close()
				return err
			}
		}
		if err := sink.Finish(); err != nil {
			sink.Close()
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
}

// decodeRowsFromStdin reads a JSON array of arrays and converts each JSON
// scalar to the matching cellvalue.Value kind.
func decodeRowsFromStdin(r io.Reader) ([][]cellvalue.Value, error) {
	var raw [][]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, sheeterr.Wrap(sheeterr.KindUsage, "decode input rows", err)
	}

	rows := make([][]cellvalue.Value, len(raw))
	for i, rawRow := range raw {
		cells := make([]cellvalue.Value, len(rawRow))
		for j, v := range rawRow {
			cells[j] = jsonToCellValue(v)
		}
		rows[i] = cells
	}
	return rows, nil
}

func jsonToCellValue(v any) cellvalue.Value {
	switch t := v.(type) {
	case nil:
		return cellvalue.Null()
	case bool:
		return cellvalue.Bool(t)
	case float64:
		if t == float64(int64(t)) {
			return cellvalue.Int(int64(t))
		}
		return cellvalue.Float(t)
	case string:
		return cellvalue.String(t)
	default:
		return cellvalue.String("")
	}
}
