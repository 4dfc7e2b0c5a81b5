package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/longkedev/lk-export-excel/internal/cellvalue"
	"github.com/longkedev/lk-export-excel/internal/output"
	"github.com/longkedev/lk-export-excel/internal/pipeline"
)

var tailN int

var tailCmd = &cobra.Command{
	Use:   "tail <path> [sheet]",
	Short: "Show the last N rows",
	Long:  "Show the last N rows without materializing the whole input: a size-N ring buffer holds candidates as the stream passes through.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := ResolveFilePath(GetBasepathFromCmd(cmd), args[0])
		if err != nil {
			return err
		}
		sheet := ""
		if len(args) > 1 {
			sheet = args[1]
		}
		hasHeader, _ := cmd.Flags().GetBool("has-header")

		src, isOOXML, st, err := openSource(path, GetFormatFromCmd(cmd))
		if err != nil {
			return err
		}
		defer src.Close()

		p, err := pipeline.New(src, pipeline.Options{Sheet: sheet, HasHeader: hasHeader}, fileSize(path), isOOXML)
		if err != nil {
			return err
		}
		defer p.Close()

		if tailN < 1 {
			tailN = 1
		}
		ring := make([][]cellvalue.Value, 0, tailN)
		next := 0
		for {
			row, err := p.NextRow()
			if err == pipeline.EOS {
				break
			}
			if err != nil {
				return err
			}
			if len(ring) < tailN {
				ring = append(ring, row)
			} else {
				ring[next] = row
				next = (next + 1) % tailN
			}
		}
		ordered := make([][]cellvalue.Value, 0, len(ring))
		ordered = append(ordered, ring[next:]...)
		ordered = append(ordered, ring[:next]...)

		data := rowsToStringSlice(ordered)
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

func init() {
	tailCmd.Flags().IntVarP(&tailN, "number", "n", 10, "Number of rows to show")
	tailCmd.Flags().Bool("has-header", false, "Treat the first row as a header, excluded from output")
	rootCmd.AddCommand(tailCmd)
}
