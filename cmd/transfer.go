package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
	"github.com/twiced-technology-gmbh/fivetodo/internal/store"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
	"github.com/twiced-technology-gmbh/fivetodo/internal/transfer"
)

const qrPNGSize = 512

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write all tasks to a JSON file",
	Long: `Writes every task as a versioned JSON envelope. FILE defaults to
fivetodo-YYYY-MM-DD.json in the current directory; use - for stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [FILE]",
	Short: "Replace all tasks with an export file or share payload",
	Long: `Reads an export envelope from FILE (or stdin with -) or a share payload
given with --payload, and replaces the current task list with it.
The previous list can be restored with undo.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Show the task list as a QR code",
	Long: `Encodes the task list as a compact "tasks:" payload and prints it as a
terminal QR code, or writes a PNG with --png. Another device imports it with
fivetodo import --payload.`,
	Args: cobra.NoArgs,
	RunE: runShare,
}

func init() {
	importCmd.Flags().String("payload", "", "share payload text (tasks:...)")
	importCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	shareCmd.Flags().String("png", "", "write the QR code to a PNG file")
	shareCmd.Flags().Bool("text", false, "print the payload text instead of a QR code")
	rootCmd.AddCommand(exportCmd, importCmd, shareCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}
	tasks, err := loadTasks(st)
	if err != nil {
		return err
	}

	path := transfer.DefaultFilename(date.Of(st.Now()))
	if len(args) == 1 {
		path = args[0]
	}
	if path == "-" {
		return transfer.Export(os.Stdout, tasks)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := transfer.Export(f, tasks); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"action": "export", "file": path, "count": len(tasks)})
	}
	output.Messagef(os.Stdout, "Exported %d tasks to %s", len(tasks), path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}

	incoming, err := readImport(cmd, args, st)
	if err != nil {
		return err
	}

	current, err := loadTasks(st)
	if err != nil {
		return err
	}
	if len(current) > 0 {
		yes, _ := cmd.Flags().GetBool("yes")
		ok, err := confirm(fmt.Sprintf("Replace %d tasks with %d imported tasks?", len(current), len(incoming)), yes)
		if err != nil || !ok {
			return err
		}
	}

	err = st.Update(func(tx *store.Tx) error {
		tx.Replace(incoming)
		tx.Log("import", "", fmt.Sprintf("%d tasks", len(incoming)))
		return nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.Mutation{Action: "import", Count: len(incoming)})
	}
	output.Messagef(os.Stdout, "Imported %d tasks", len(incoming))
	return nil
}

func readImport(cmd *cobra.Command, args []string, st *store.Store) ([]*task.Task, error) {
	payload, _ := cmd.Flags().GetString("payload")
	switch {
	case payload != "":
		return transfer.DecodePayload(strings.TrimSpace(payload), st.Now())
	case len(args) == 0:
		return nil, clierr.New(clierr.InvalidInput, "import needs a FILE or --payload")
	}

	var r io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()
		r = f
	}
	return transfer.Import(r, st.Now())
}

func runShare(cmd *cobra.Command, _ []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}
	tasks, err := loadTasks(st)
	if err != nil {
		return err
	}

	payload, err := transfer.EncodePayload(tasks)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"payload": payload, "count": len(tasks)})
	}
	if text, _ := cmd.Flags().GetBool("text"); text {
		fmt.Fprintln(os.Stdout, payload)
		return nil
	}
	if png, _ := cmd.Flags().GetString("png"); png != "" {
		if err := transfer.WriteQRPNG(png, payload, qrPNGSize); err != nil {
			return err
		}
		output.Messagef(os.Stdout, "Wrote QR code for %d tasks to %s", len(tasks), png)
		return nil
	}

	qr, err := transfer.RenderQR(payload)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, qr)
	output.Messagef(os.Stdout, "%d tasks, %d bytes", len(tasks), len(payload))
	return nil
}
