package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/longkedev/lk-export-excel/internal/output"
	"github.com/longkedev/lk-export-excel/internal/pipeline"
)

var headN int

var headCmd = &cobra.Command{
	Use:   "head <path> [sheet]",
	Short: "Show the first N rows",
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

		p, err := pipeline.New(src, pipeline.Options{Sheet: sheet, Limit: headN, HasHeader: hasHeader}, fileSize(path), isOOXML)
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

func init() {
	headCmd.Flags().IntVarP(&headN, "number", "n", 10, "Number of rows to show")
	headCmd.Flags().Bool("has-header", false, "Treat the first row as a header, excluded from output")
	rootCmd.AddCommand(headCmd)
}
