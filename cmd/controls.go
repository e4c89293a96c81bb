package cmd

import (
	"github.com/KaramelBytes/campaignlens/internal/dashboard"
	"github.com/KaramelBytes/campaignlens/internal/utils"
	"github.com/spf13/cobra"
)

var (
	ctlSel    selectionFlags
	ctlFormat string
)

var controlsCmd = &cobra.Command{
	Use:   "controls",
	Short: "List the filter options available for a selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(ctlFormat, "markdown", "json"); err != nil {
			return err
		}
		t, err := loadTable()
		if err != nil {
			return err
		}
		sel, err := ctlSel.selection(t)
		if err != nil {
			return err
		}
		c := dashboard.BuildControls(t, sel)
		if ctlFormat == "json" {
			b, err := utils.PrettyJSON(c)
			if err != nil {
				return err
			}
			return emit(cmd, "", b, "controls")
		}
		return emit(cmd, "", []byte(c.Markdown()), "controls")
	},
}

func init() {
	rootCmd.AddCommand(controlsCmd)
	ctlSel.bind(controlsCmd, false)
	controlsCmd.Flags().StringVar(&ctlFormat, "format", "markdown", "output format: markdown|json")
}
