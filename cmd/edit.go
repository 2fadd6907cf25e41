package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Modify a task",
	Long: `Changes the fields named by flags and leaves everything else alone.
Status is not editable here; use done, move or reopen.`,
	Example: `  fivetodo edit 3f2a --due tomorrow --add-tag errands
  fivetodo edit 3f2a --repeat weekly --on mon,thu
  fivetodo edit 3f2a --no-due --no-remind`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	addFieldFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}

	p, err := patchFromFlags(cmd, date.Of(st.Now()))
	if err != nil {
		return err
	}
	if p.IsEmpty() {
		return clierr.New(clierr.NoChanges, "no changes specified")
	}

	res, err := st.Edit(args[0], p)
	if err != nil {
		return err
	}
	return printMutation("edit", "Updated", res)
}
