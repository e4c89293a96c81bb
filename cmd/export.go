package cmd

import (
	"bytes"

	"github.com/KaramelBytes/campaignlens/internal/analysis"
	"github.com/KaramelBytes/campaignlens/internal/dataset"
	"github.com/KaramelBytes/campaignlens/internal/utils"
	"github.com/spf13/cobra"
)

var (
	expSel         selectionFlags
	expOutput      string
	expFormat      string
	expTrim        bool
	expIQRMultiple float64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the rows of a selection as CSV or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(expFormat, "csv", "json"); err != nil {
			return err
		}
		t, err := loadTable()
		if err != nil {
			return err
		}
		sel, err := expSel.selection(t)
		if err != nil {
			return err
		}
		view := analysis.ApplyFilters(t, sel)
		if expTrim {
			k := expIQRMultiple
			if k <= 0 {
				k = dashboardOptions().IQRMultiplier
			}
			view = analysis.RemoveOutliersK(view, dataset.FieldBalance, k)
		}

		var body []byte
		switch expFormat {
		case "json":
			if body, err = utils.PrettyJSON(view.Records(0)); err != nil {
				return err
			}
		default:
			var buf bytes.Buffer
			if err := view.WriteCSV(&buf); err != nil {
				return err
			}
			body = buf.Bytes()
		}
		return emit(cmd, expOutput, body, "rows")
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	expSel.bind(exportCmd, true)
	exportCmd.Flags().StringVarP(&expOutput, "output", "o", "", "optional path to write the rows")
	exportCmd.Flags().StringVar(&expFormat, "format", "csv", "output format: csv|json")
	exportCmd.Flags().BoolVar(&expTrim, "trim-outliers", false, "drop balance outliers outside the IQR fences")
	exportCmd.Flags().Float64Var(&expIQRMultiple, "iqr-multiplier", 0, "IQR fence multiplier (defaults to iqr_multiplier)")
}
