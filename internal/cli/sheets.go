package cli

import (
	"github.com/spf13/cobra"

	"github.com/longkedev/lk-export-excel/internal/output"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets <path>",
	Short: "List the addressable sheets in a spreadsheet",
	Long:  "List every sheet a Row Source exposes, in workbook order. Non-OOXML inputs report a single synthetic Sheet1.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := ResolveFilePath(GetBasepathFromCmd(cmd), args[0])
		if err != nil {
			return err
		}

		src, _, _, err := openSource(path, GetFormatFromCmd(cmd))
		if err != nil {
			return err
		}
		defer src.Close()

		descs, err := src.Sheets()
		if err != nil {
			return err
		}

		type sheetRow struct {
			Name    string `json:"name"`
			Index   int    `json:"index"`
			Visible bool   `json:"visible"`
			Active  bool   `json:"active"`
		}
		rows := make([]sheetRow, len(descs))
		for i, d := range descs {
			rows[i] = sheetRow{Name: d.Name, Index: d.Index, Visible: d.Visible, Active: d.Active}
		}

		return output.Print(rows, displayFormat(GetFormatFromCmd(cmd)))
	},
}

func init() {
	rootCmd.AddCommand(sheetsCmd)
}
