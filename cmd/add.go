package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/store"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

var addCmd = &cobra.Command{
	Use:     "add TEXT...",
	Aliases: []string{"create", "new"},
	Short:   "Capture a new task",
	Long: `Creates a task from a quick-capture line. Shorthand in the text is extracted:

  #word            tag
  !p1 .. !p4       priority (p1 low, p4 urgent); also !low, !high, ...
  ^YYYY-MM-DD      due date
  today, tomorrow, nextweek
                   due date relative to today

Flags override the shorthand. Use --raw to keep the text as the title verbatim.`,
	Example: `  fivetodo add Pay rent #home !p3 ^2024-06-01
  fivetodo add "Water plants" --repeat daily --every 2 --due today`,
	RunE: runAdd,
}

func init() {
	addFieldFlags(addCmd)
	addCmd.Flags().String("status", "", "initial status (todo, doing, done)")
	addCmd.Flags().Bool("raw", false, "do not parse quick-capture shorthand")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	now := st.Now()
	asOf := date.Of(now)

	text := strings.Join(args, " ")
	raw, _ := cmd.Flags().GetBool("raw")

	var t *task.Task
	if raw {
		t = task.New(text, cfg.TaskDefaults(), now)
	} else {
		t = task.FromQuickEntry(task.ParseQuickEntry(text, asOf), cfg.TaskDefaults(), now)
	}

	p, err := patchFromFlags(cmd, asOf)
	if err != nil {
		return err
	}
	if !p.IsEmpty() {
		if _, err := task.Apply(t, p, now); err != nil {
			return err
		}
	}
	if err := task.ValidateTitle(t.Title); err != nil {
		return err
	}

	status := task.StatusTodo
	if cmd.Flags().Changed("status") {
		v, _ := cmd.Flags().GetString("status")
		if status, err = task.ParseStatus(v); err != nil {
			return err
		}
	}

	var res store.Result
	err = st.Update(func(tx *store.Tx) error {
		tx.Put(t)
		tx.Log("add", t.ID, t.Title)
		res.Task = t
		if status == task.StatusTodo {
			return nil
		}
		spawned, _ := task.SetStatus(t, status, tx.Now, task.NewID())
		tx.Put(t)
		if spawned != nil {
			tx.Put(spawned)
			tx.Log("spawn", spawned.ID, fmt.Sprintf("%s due %s", spawned.Title, spawned.Due))
			res.Spawned = spawned
		}
		return nil
	})
	if err != nil {
		return err
	}
	return printMutation("add", "Created", res)
}
