package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// addFieldFlags registers the task field flags shared by add and edit.
func addFieldFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("title", "", "task title")
	f.String("notes", "", "task notes (markdown)")
	f.String("due", "", "due date (YYYY-MM-DD, today, tomorrow, nextweek, +N)")
	f.Bool("no-due", false, "clear the due date")
	f.String("priority", "", "priority (low, medium, high, urgent)")
	f.StringSlice("tags", nil, "replace tags (comma-separated)")
	f.StringSlice("add-tag", nil, "add tags")
	f.StringSlice("remove-tag", nil, "remove tags")
	f.String("energy", "", "energy (low, medium, high)")
	f.Int("duration", 0, "effort estimate in minutes")
	f.String("slot", "", "planner slot (morning, afternoon, evening, any)")
	f.String("repeat", "", "recurrence (none, daily, weekly, monthly)")
	f.Int("every", 1, "recurrence interval")
	f.String("on", "", "weekdays for weekly recurrence (e.g. mon,wed,fri)")
	f.String("remind", "", "reminder date-time (YYYY-MM-DDTHH:MM)")
	f.Bool("no-remind", false, "clear the reminder")
	f.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "tag":
			name = "tags"
		case "body", "description":
			name = "notes"
		case "interval":
			name = "every"
		}
		return pflag.NormalizedName(name)
	})
}

// patchFromFlags builds a Patch from the flags the user actually set.
func patchFromFlags(cmd *cobra.Command, asOf date.Date) (task.Patch, error) {
	var p task.Patch
	f := cmd.Flags()

	if f.Changed("title") {
		v, _ := f.GetString("title")
		p.Title = &v
	}
	if f.Changed("notes") {
		v, _ := f.GetString("notes")
		p.Notes = &v
	}
	if f.Changed("due") {
		v, _ := f.GetString("due")
		d, err := task.ParseDue(v, asOf)
		if err != nil {
			return p, err
		}
		p.Due = &d
	}
	p.ClearDue, _ = f.GetBool("no-due")
	if f.Changed("priority") {
		v, _ := f.GetString("priority")
		pr, err := task.ParsePriority(v)
		if err != nil {
			return p, err
		}
		p.Priority = &pr
	}
	if f.Changed("tags") {
		v, _ := f.GetStringSlice("tags")
		p.SetTags = &v
	}
	p.AddTags, _ = f.GetStringSlice("add-tag")
	p.RemoveTags, _ = f.GetStringSlice("remove-tag")
	if f.Changed("energy") {
		v, _ := f.GetString("energy")
		e, err := task.ParseEnergy(v)
		if err != nil {
			return p, err
		}
		p.Energy = &e
	}
	if f.Changed("duration") {
		v, _ := f.GetInt("duration")
		p.DurationMin = &v
	}
	if f.Changed("slot") {
		v, _ := f.GetString("slot")
		s, err := task.ParseSlot(v)
		if err != nil {
			return p, err
		}
		p.Slot = &s
	}
	if f.Changed("repeat") || f.Changed("every") || f.Changed("on") {
		freq, _ := f.GetString("repeat")
		every, _ := f.GetInt("every")
		on, _ := f.GetString("on")
		if freq == "" {
			freq = string(task.FreqWeekly)
			if on == "" {
				freq = string(task.FreqDaily)
			}
		}
		r, err := task.ParseRecurrence(freq, every, on)
		if err != nil {
			return p, err
		}
		p.Recurrence = &r
	}
	if f.Changed("remind") {
		v, _ := f.GetString("remind")
		m, err := task.ParseRemindAt(v)
		if err != nil {
			return p, err
		}
		p.RemindAt = &m
	}
	p.ClearRemind, _ = f.GetBool("no-remind")
	return p, nil
}
