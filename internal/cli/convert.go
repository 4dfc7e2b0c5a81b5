package cli

import (
	"github.com/spf13/cobra"

	"github.com/longkedev/lk-export-excel/internal/pipeline"
)

var convertCmd = &cobra.Command{
	Use:   "convert <source> <destination>",
	Short: "Convert a spreadsheet between formats",
	Long:  "Stream rows from source to destination, converting between OOXML, delimited-text, and JSONL as needed.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcPath, err := ResolveFilePath(GetBasepathFromCmd(cmd), args[0])
		if err != nil {
			return err
		}
		dstPath, err := ResolveFilePath(GetBasepathFromCmd(cmd), args[1])
		if err != nil {
			return err
		}

		srcFormat, _ := cmd.Flags().GetString("source-format")
		dstFormat, _ := cmd.Flags().GetString("format")

		src, isOOXML, st, err := openSource(srcPath, srcFormat)
		if err != nil {
			return err
		}
		defer src.Close()

		p, err := pipeline.New(src, pipelineOptionsFromCmd(cmd), fileSize(srcPath), isOOXML)
		if err != nil {
			return err
		}
		defer p.Close()

		dstFmt, err := destinationFormat(dstPath, dstFormat)
		if err != nil {
			return err
		}
		sink, err := openSink(dstPath, dstFmt)
		if err != nil {
			return err
		}

		for {
			row, err := p.NextRow()
			if err == pipeline.EOS {
				break
			}
			if err != nil {
				sink.Close()
				return err
			}
			if err := sink.WriteRow(row); err != nil {
				sink.Close()
				return err
			}
		}

		if err := sink.Finish(); err != nil {
			sink.Close()
			return err
		}
		warnOnStats(cmd, st)
		return nil
	},
}

func init() {
	addCommonFlags(convertCmd)
	convertCmd.Flags().String("source-format", "", "Source format override (xlsx, csv, jsonl); default auto-detects")
	rootCmd.AddCommand(convertCmd)
}
