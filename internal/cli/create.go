package cli

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/longkedev/lk-export-excel/internal/cellref"
	"github.com/longkedev/lk-export-excel/internal/output"
	"github.com/longkedev/lk-export-excel/internal/sheeterr"
	"github.com/longkedev/lk-export-excel/internal/xlsxrich"
)

var createCmd = &cobra.Command{
	Use:   "create <file.xlsx>",
	Short: "Create a new xlsx file with optional headers and initial data",
	Long:  "Create a new xlsx file via the rich writer. For streaming-scale writes use `write` instead.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := ResolveFilePath(GetBasepathFromCmd(cmd), args[0])
		if err != nil {
			return err
		}

		sheetName, _ := cmd.Flags().GetString("sheet")
		headersStr, _ := cmd.Flags().GetString("headers")
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		dataFile, _ := cmd.Flags().GetString("data")

		if !overwrite {
			if _, statErr := os.Stat(path); statErr == nil {
				return sheeterr.Wrapf(sheeterr.ErrUsage, "file already exists: %s (use --overwrite)", path)
			}
		}

		var headers []string
		if headersStr != "" {
			headers = strings.Split(headersStr, ",")
		}

		var rows [][]any
		if dataFile != "" {
			data, readErr := os.ReadFile(dataFile)
			if readErr != nil {
				return sheeterr.Wrap(sheeterr.KindFileUnreadable, dataFile, readErr)
			}
			if jsonErr := json.Unmarshal(data, &rows); jsonErr != nil {
				return sheeterr.Wrap(sheeterr.KindFormatUnknown, dataFile, jsonErr)
			}
		}

		w := xlsxrich.New()
		defer w.Close()
		if sheetName != "" && sheetName != "Sheet1" {
			if err := w.Raw().SetSheetName("Sheet1", sheetName); err != nil {
				return sheeterr.Wrap(sheeterr.KindSinkWrite, sheetName, err)
			}
		} else {
			sheetName = "Sheet1"
		}

		rowIdx := 1
		if len(headers) > 0 {
			for col, h := range headers {
				addr := cellref.FormatCellAddress(col+1, rowIdx)
				if err := w.SetCellValue(sheetName, addr, h); err != nil {
					return err
				}
			}
			rowIdx++
		}
		for _, row := range rows {
			for col, v := range row {
				addr := cellref.FormatCellAddress(col+1, rowIdx)
				if err := w.SetCellValue(sheetName, addr, v); err != nil {
					return err
				}
			}
			rowIdx++
		}

		if err := w.SaveAs(path); err != nil {
			return err
		}

		result := struct {
			Path string `json:"path"`
			Rows int    `json:"rows_written"`
		}{Path: path, Rows: len(rows)}
		return output.Print(result, displayFormat(GetFormatFromCmd(cmd)))
	},
}

func init() {
	createCmd.Flags().StringP("sheet", "s", "Sheet1", "Name for the first sheet")
	createCmd.Flags().StringP("headers", "H", "", "Comma-separated header row")
	createCmd.Flags().BoolP("overwrite", "o", false, "Overwrite an existing file")
	createCmd.Flags().StringP("data", "d", "", "JSON file with initial data (array of row arrays)")
	rootCmd.AddCommand(createCmd)
}
