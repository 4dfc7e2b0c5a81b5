package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/longkedev/lk-export-excel/internal/cellref"
	"github.com/longkedev/lk-export-excel/internal/output"
	"github.com/longkedev/lk-export-excel/internal/sheeterr"
	"github.com/longkedev/lk-export-excel/internal/xlsxrich"
)

var appendCmd = &cobra.Command{
	Use:   "append <file.xlsx> <data-file.json>",
	Short: "Append rows from a JSON array file to the end of a sheet",
	Long:  "Appends via the rich writer, which loads the whole workbook into memory; for streaming-scale appends build a new file with `write` instead.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := ResolveFilePath(GetBasepathFromCmd(cmd), args[0])
		if err != nil {
			return err
		}
		dataFile := args[1]

		sheet, _ := cmd.Flags().GetString("sheet")

		data, err := os.ReadFile(dataFile)
		if err != nil {
			return sheeterr.Wrap(sheeterr.KindFileUnreadable, dataFile, err)
		}
		var rows [][]any
		if err := json.Unmarshal(data, &rows); err != nil {
			return sheeterr.Wrap(sheeterr.KindFormatUnknown, dataFile, err)
		}

		r, err := xlsxrich.Open(path)
		if err != nil {
			return err
		}
		if sheet == "" {
			sheet = r.ActiveSheetName()
		}
		startRow, _, err := r.Dimensions(sheet)
		if err != nil {
			r.Close()
			return err
		}
		r.Close()

		w, err := xlsxrich.OpenWriter(path)
		if err != nil {
			return err
		}
		defer w.Close()

		for i, row := range rows {
			for col, v := range row {
				addr := cellref.FormatCellAddress(col+1, startRow+1+i)
				if err := w.SetCellValue(sheet, addr, v); err != nil {
					return err
				}
			}
		}
		if err := w.SaveAs(path); err != nil {
			return err
		}

		result := struct {
			Path         string `json:"path"`
			RowsAppended int    `json:"rows_appended"`
			StartRow     int    `json:"start_row"`
		}{Path: path, RowsAppended: len(rows), StartRow: startRow + 1}
		return output.Print(result, displayFormat(GetFormatFromCmd(cmd)))
	},
}

func init() {
	appendCmd.Flags().StringP("sheet", "s", "", "Sheet name (default: active sheet)")
	rootCmd.AddCommand(appendCmd)
}
