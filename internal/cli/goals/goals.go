package goals

import (
	"fmt"
	"strings"

	"github.com/julianstephens/retcal/internal/cli"
	"github.com/julianstephens/retcal/internal/models"
)

type GoalAddCmd struct {
	Name      string `arg:"" help:"Goal name."`
	Date      string `short:"d" help:"First date (YYYY-MM-DD). Defaults to today."`
	Intervals string `short:"i" help:"Comma-separated, strictly increasing repeat intervals in days (e.g. 1,3,7). Defaults to the settings file."`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	date := models.Today()
	if c.Date != "" {
		d, err := models.ParseDate(c.Date)
		if err != nil {
			return err
		}
		date = d
	}

	intervals := models.DefaultIntervals()
	if ctx.Settings != nil {
		intervals = ctx.Settings.Intervals()
	}
	if c.Intervals != "" {
		iv, err := models.ParseIntervals(c.Intervals)
		if err != nil {
			return err
		}
		intervals = iv
	}

	store, err := ctx.Goals()
	if err != nil {
		return err
	}
	created, err := store.AddGroup(c.Name, date, intervals)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added %q (%d reviews, group %s)\n", created[0].Name, len(created), created[0].GroupID)
	for _, g := range created {
		fmt.Printf("  %s  %s\n", g.Date, g.ID)
	}
	return nil
}

type GoalListCmd struct {
	All     bool `help:"Include instances dated before today."`
	ShowIDs bool `help:"Show instance and group IDs." name:"show-ids"`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Goals()
	if err != nil {
		return err
	}

	today := models.Today()
	var shown []models.GoalInstance
	for _, g := range store.List() {
		if !c.All && g.Date.Before(today) {
			continue
		}
		shown = append(shown, g)
	}

	if len(shown) == 0 {
		if c.All {
			fmt.Println("No goals found")
		} else {
			fmt.Println("No upcoming goals (use --all to include past days)")
		}
		return nil
	}

	fmt.Println("Goals:")
	for _, g := range shown {
		printInstance(g, c.ShowIDs)
	}
	return nil
}

type GoalGroupCmd struct {
	GroupID string `arg:"" help:"Group ID."`
}

func (c *GoalGroupCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Goals()
	if err != nil {
		return err
	}
	group, err := store.Group(c.GroupID)
	if err != nil {
		return err
	}

	done := 0
	for _, g := range group {
		if g.Completed {
			done++
		}
	}
	fmt.Printf("%s (%d/%d complete)\n", group[0].Name, done, len(group))
	for _, g := range group {
		printInstance(g, true)
	}
	return nil
}

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	date := models.Today()
	if c.Date != "" {
		d, err := models.ParseDate(c.Date)
		if err != nil {
			return err
		}
		date = d
	}

	store, err := ctx.Goals()
	if err != nil {
		return err
	}

	summary := store.Summary(date)
	fmt.Printf("%s %s: %d goal(s), %d complete\n", date.Weekday().String()[:3], date, summary.Total, summary.Completed)
	for _, g := range store.FilterByDate(date) {
		printInstance(g, true)
	}
	return nil
}

type GoalCompleteCmd struct {
	ID string `arg:"" help:"Instance ID."`
}

func (c *GoalCompleteCmd) Run(ctx *cli.Context) error {
	return setCompleted(ctx, c.ID, true)
}

type GoalIncompleteCmd struct {
	ID string `arg:"" help:"Instance ID."`
}

func (c *GoalIncompleteCmd) Run(ctx *cli.Context) error {
	return setCompleted(ctx, c.ID, false)
}

func setCompleted(ctx *cli.Context, id string, completed bool) error {
	store, err := ctx.Goals()
	if err != nil {
		return err
	}
	if err := store.SetCompleted(id, completed); err != nil {
		return err
	}
	g, err := store.Get(id)
	if err != nil {
		return err
	}
	state := "complete"
	if !completed {
		state = "incomplete"
	}
	fmt.Printf("✓ Marked %q on %s %s\n", g.Name, g.Date, state)
	return nil
}

type GoalDeleteCmd struct {
	GroupID string `arg:"" help:"Group ID. Every instance of the group is removed."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Goals()
	if err != nil {
		return err
	}
	if _, err := store.Group(c.GroupID); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	n, err := store.DeleteGroup(c.GroupID)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Deleted group %s (%d instance(s))\n", c.GroupID, n)
	return nil
}

type GoalDeleteInstanceCmd struct {
	ID string `arg:"" help:"Instance ID. Other instances of the group are kept."`
}

func (c *GoalDeleteInstanceCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Goals()
	if err != nil {
		return err
	}
	g, err := store.Get(c.ID)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := store.DeleteInstance(c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted %q on %s\n", g.Name, g.Date)
	return nil
}

type GoalClearCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *GoalClearCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Goals()
	if err != nil {
		return err
	}
	n := len(store.List())
	if n == 0 {
		fmt.Println("No goals to clear")
		return nil
	}
	if !c.Yes {
		ok, err := cli.Confirm(fmt.Sprintf("Delete all %d goal instance(s)?", n))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Printf("✓ Cleared %d goal instance(s)\n", n)
	return nil
}

func printInstance(g models.GoalInstance, showIDs bool) {
	mark := "[ ]"
	if g.Completed {
		mark = "[x]"
	}
	line := fmt.Sprintf("  %s %s  %s", mark, g.Date, g.Name)
	if showIDs {
		line += fmt.Sprintf("  (ID: %s, group: %s)", g.ID, g.GroupID)
	}
	fmt.Println(strings.TrimRight(line, " "))
}
