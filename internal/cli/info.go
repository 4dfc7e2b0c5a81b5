package cli

import (
	"github.com/spf13/cobra"

	"github.com/longkedev/lk-export-excel/internal/output"
	"github.com/longkedev/lk-export-excel/internal/xlsxrich"
)

type sheetInfo struct {
	Sheet   string `json:"sheet"`
	Visible bool   `json:"visible"`
	Active  bool   `json:"active"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

var infoCmd = &cobra.Command{
	Use:   "info <file.xlsx> [sheet]",
	Short: "Get sheet metadata (whole-document, non-streaming)",
	Long:  "Report a sheet's visibility, active state, and dimensions. Materializes the sheet via the rich reader rather than the streaming Row Source.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := ResolveFilePath(GetBasepathFromCmd(cmd), args[0])
		if err != nil {
			return err
		}

		r, err := xlsxrich.Open(path)
		if err != nil {
			return err
		}
		defer r.Close()

		sheet := ""
		if len(args) > 1 {
			sheet = args[1]
		} else {
			sheet = r.ActiveSheetName()
		}

		visible, err := r.SheetVisible(sheet)
		if err != nil {
			return err
		}
		rows, cols, err := r.Dimensions(sheet)
		if err != nil {
			return err
		}

		info := sheetInfo{
			Sheet:   sheet,
			Visible: visible,
			Active:  sheet == r.ActiveSheetName(),
			Rows:    rows,
			Columns: cols,
		}
		return output.Print(info, displayFormat(GetFormatFromCmd(cmd)))
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
