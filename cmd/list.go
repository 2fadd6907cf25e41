package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/board"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks through the view pipeline: done tasks are hidden unless --all,
then the tag and search filters apply, then the date mode (today, upcoming,
overdue, all, completed). Results are ordered open before done, by priority,
then by due date.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringP("mode", "m", "", "view mode ("+modeNames()+"; default from config)")
	listCmd.Flags().StringP("tag", "t", "", "only tasks with this tag")
	listCmd.Flags().StringP("search", "s", "", "search title, notes and tags (case-insensitive)")
	listCmd.Flags().BoolP("all", "a", false, "include done tasks")
	listCmd.Flags().String("as-of", "", "evaluate date modes as of this day (YYYY-MM-DD)")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().String("group-by", "", "group results by field ("+strings.Join(board.ValidGroupByFields(), ", ")+")")
	rootCmd.AddCommand(listCmd)
}

func modeNames() string {
	names := make([]string, len(board.Modes))
	for i, m := range board.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	params, asOf, err := viewParamsFromFlags(cmd, cfg.ViewParams())
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	groupBy, _ := cmd.Flags().GetString("group-by")

	tasks, warnings, err := board.List(cfg.TasksPath(), params, asOf, limit)
	if err != nil {
		return err
	}
	printWarnings(warnings)

	if groupBy != "" {
		groups, err := board.GroupBy(tasks, groupBy)
		if err != nil {
			return err
		}
		switch outputFormat() {
		case output.FormatJSON:
			return output.JSON(os.Stdout, groups)
		case output.FormatCompact:
			output.GroupedCompact(os.Stdout, groups)
		default:
			output.GroupedTable(os.Stdout, groups)
		}
		return nil
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks)
	default:
		output.TaskTable(os.Stdout, tasks, asOf)
	}
	return nil
}

// viewParamsFromFlags overrides the configured view with list flags.
func viewParamsFromFlags(cmd *cobra.Command, p board.ViewParams) (board.ViewParams, date.Date, error) {
	f := cmd.Flags()
	asOf := date.Today()
	if v, _ := f.GetString("as-of"); v != "" {
		d, err := date.Parse(v)
		if err != nil {
			return p, asOf, task.ValidateDate("as-of", v, err)
		}
		asOf = d
	}
	if v, _ := f.GetString("mode"); v != "" {
		m, err := board.ParseMode(v)
		if err != nil {
			return p, asOf, err
		}
		p.Mode = m
	}
	if f.Changed("tag") {
		p.Tag, _ = f.GetString("tag")
	}
	if f.Changed("search") {
		p.Query, _ = f.GetString("search")
	}
	if f.Changed("all") {
		p.ShowDone, _ = f.GetBool("all")
	}
	if p.Mode == board.ModeCompleted {
		p.ShowDone = true
	}
	return p, asOf, nil
}
