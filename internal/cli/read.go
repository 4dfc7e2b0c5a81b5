package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/longkedev/lk-export-excel/internal/cellvalue"
	"github.com/longkedev/lk-export-excel/internal/output"
	"github.com/longkedev/lk-export-excel/internal/pipeline"
	"github.com/longkedev/lk-export-excel/internal/stats"
)

var readCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Read rows from a spreadsheet",
	Long:  "Read rows from an OOXML, delimited-text, or JSONL file and print them in the chosen output format.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := ResolveFilePath(GetBasepathFromCmd(cmd), args[0])
		if err != nil {
			return err
		}

		src, isOOXML, st, err := openSource(path, GetFormatFromCmd(cmd))
		if err != nil {
			return err
		}
		defer src.Close()

		p, err := pipeline.New(src, pipelineOptionsFromCmd(cmd), fileSize(path), isOOXML)
		if err != nil {
			return err
		}
		defer p.Close()

		rows, err := p.ToArray()
		if err != nil {
			return err
		}

		data := rowsToStringSlice(rows)
		outFormat := displayFormat(GetFormatFromCmd(cmd))
		out, err := output.FormatRows(outFormat, data)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, string(out))
		warnOnStats(cmd, st)
		return nil
	},
}

// warnOnStats prints a one-line warning count to stderr when the run
// recorded any recoverable cell-level parse failures. Only the OOXML source
// records warnings in st; delimited-text and JSONL sources never do.
func warnOnStats(cmd *cobra.Command, st *stats.Stats) {
	if st == nil || !st.HasWarnings() {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d recoverable cell parse failures\n", st.Count())
}

func init() {
	addCommonFlags(readCmd)
	rootCmd.AddCommand(readCmd)
}

func rowsToStringSlice(rows [][]cellvalue.Value) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = c.Display()
		}
		out[i] = cells
	}
	return out
}
