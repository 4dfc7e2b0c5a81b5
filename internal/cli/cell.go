package cli

import (
	"github.com/spf13/cobra"

	"github.com/longkedev/lk-export-excel/internal/output"
	"github.com/longkedev/lk-export-excel/internal/xlsxrich"
)

var cellCmd = &cobra.Command{
	Use:   "cell <file.xlsx> [sheet] <address>",
	Short: "Get a single cell's value and formula (random access, non-streaming)",
	Args:  cobra.RangeArgs(2, 3),
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

		var sheet, address string
		if len(args) == 2 {
			sheet = r.ActiveSheetName()
			address = args[1]
		} else {
			sheet = args[1]
			address = args[2]
		}

		value, err := r.CellValue(sheet, address)
		if err != nil {
			return err
		}
		formula, _ := r.CellFormula(sheet, address)

		result := struct {
			Sheet   string `json:"sheet"`
			Address string `json:"address"`
			Value   string `json:"value"`
			Formula string `json:"formula,omitempty"`
		}{Sheet: sheet, Address: address, Value: value, Formula: formula}

		return output.Print(result, displayFormat(GetFormatFromCmd(cmd)))
	},
}

func init() {
	rootCmd.AddCommand(cellCmd)
}
