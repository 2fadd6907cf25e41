package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/config"
	"github.com/twiced-technology-gmbh/fivetodo/internal/mirror"
	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
	"github.com/twiced-technology-gmbh/fivetodo/internal/store"
)

const mirrorFileName = "mirror.db"

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Copy tasks to or from a SQLite database",
	Long: `Keeps a SQLite copy of the task list, one JSON document per task keyed
task:<id>. The database defaults to mirror.db in the store directory.`,
}

var mirrorPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Write the task list into the database",
	Args:  cobra.NoArgs,
	RunE:  runMirrorPush,
}

var mirrorPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the task list with the database contents",
	Args:  cobra.NoArgs,
	RunE:  runMirrorPull,
}

func init() {
	mirrorCmd.PersistentFlags().String("db", "", "path to the mirror database")
	mirrorPullCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	mirrorCmd.AddCommand(mirrorPushCmd, mirrorPullCmd)
	rootCmd.AddCommand(mirrorCmd)
}

func openMirror(cmd *cobra.Command, cfg *config.Config) (*mirror.Mirror, string, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = filepath.Join(cfg.Dir(), mirrorFileName)
	}
	m, err := mirror.Open(path)
	return m, path, err
}

func runMirrorPush(cmd *cobra.Command, _ []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	tasks, err := loadTasks(st)
	if err != nil {
		return err
	}

	m, path, err := openMirror(cmd, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	removed, err := m.Sync(context.Background(), tasks)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"action": "push", "db": path, "count": len(tasks), "removed": removed,
		})
	}
	output.Messagef(os.Stdout, "Pushed %d tasks to %s (%d removed)", len(tasks), path, removed)
	return nil
}

func runMirrorPull(cmd *cobra.Command, _ []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}

	m, path, err := openMirror(cmd, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	tasks, err := m.LoadAll(context.Background())
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	ok, err := confirm(fmt.Sprintf("Replace the task list with %d tasks from %s?", len(tasks), path), yes)
	if err != nil || !ok {
		return err
	}

	err = st.Update(func(tx *store.Tx) error {
		tx.Replace(tasks)
		tx.Log("pull", "", fmt.Sprintf("%d tasks from %s", len(tasks), filepath.Base(path)))
		return nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.Mutation{Action: "pull", Count: len(tasks)})
	}
	output.Messagef(os.Stdout, "Pulled %d tasks from %s", len(tasks), path)
	return nil
}
