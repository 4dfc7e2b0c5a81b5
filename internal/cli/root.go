package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/longkedev/lk-export-excel/internal/sheeterr"
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "lkxl",
	Short: "lkxl - streaming spreadsheet CLI",
	Long:  `lkxl reads and writes OOXML, delimited-text, and JSONL spreadsheets without loading whole files into memory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute(ctx context.Context, version, commit, date string) error {
	versionStr := version
	if versionStr == "" {
		versionStr = "dev"
	}
	if commit != "" {
		versionStr += fmt.Sprintf(" (commit: %s)", commit)
	}
	if date != "" {
		versionStr += fmt.Sprintf(" built: %s", date)
	}

	return fang.Execute(ctx, rootCmd,
		fang.WithVersion(versionStr),
	)
}

func init() {
	rootCmd.PersistentFlags().StringP("format", "f", "", "Output/input format override (xlsx, csv, jsonl); default auto-detects")
	rootCmd.PersistentFlags().StringP("basepath", "b", "", "Base directory for relative file paths (env: LKXL_BASEPATH)")
}

// GetFormatFromCmd returns the format flag value from the command.
func GetFormatFromCmd(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("format")
	return format
}

// ExitCode maps an engine error to the CLI's documented exit code: 0
// success, 1 I/O failure, 2 format/parse failure, 3 usage error. Errors
// that aren't a *sheeterr.Error (e.g. a user callback's own error) count
// as an I/O failure, the conservative default.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var se *sheeterr.Error
	if !errors.As(err, &se) {
		return 1
	}
	switch se.Kind {
	case sheeterr.KindFileUnreadable, sheeterr.KindSinkWrite, sheeterr.KindMemoryLimit:
		return 1
	case sheeterr.KindFormatUnknown, sheeterr.KindCorruptContainer, sheeterr.KindXMLMalformed,
		sheeterr.KindParseFailed, sheeterr.KindSheetNotFound, sheeterr.KindInvalidRange,
		sheeterr.KindSharedStringMissing, sheeterr.KindInvalidAddress:
		return 2
	case sheeterr.KindUsage, sheeterr.KindNotImplemented:
		return 3
	default:
		return 1
	}
}
