package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/config"
	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new task store",
	Long:  `Creates a .fivetodo directory with config.yml and a tasks/ subdirectory.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("name", "", "store name (defaults to current directory name)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg, err := config.Init(dir, name)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status": "initialized",
			"dir":    cfg.Dir(),
			"name":   cfg.Name,
			"config": cfg.ConfigPath(),
			"tasks":  cfg.TasksPath(),
		})
	}

	output.Messagef(os.Stdout, "Initialized task store %q in %s", cfg.Name, cfg.Dir())
	output.Messagef(os.Stdout, "  Config: %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Tasks:  %s", cfg.TasksPath())
	return nil
}
