package logs

import (
	"context"

	"github.com/julianstephens/ecohabits/internal/actions"
	"github.com/julianstephens/ecohabits/internal/cli"
)

type LogCmd struct {
	Upsert LogUpsertCmd `cmd:"" help:"Record a habit occurrence, or update one with --id."`
	List   LogListCmd   `cmd:"" help:"List your habit logs, newest first."`
}

type LogUpsertCmd struct {
	Habit    string   `required:"" help:"Habit ID."`
	ID       *string  `name:"id" help:"Existing log ID to update in place."`
	Quantity *float64 `help:"Quantity (>= 0)."`
	Date     string   `help:"Log date in YYYY-MM-DD format (default: now)."`
	Notes    *string  `help:"Optional note."`
}

func (c *LogUpsertCmd) Run(ctx *cli.Context) error {
	in := actions.UpsertHabitLogInput{
		ID:       c.ID,
		HabitID:  c.Habit,
		Quantity: c.Quantity,
		Notes:    c.Notes,
	}
	if c.Date != "" {
		day, err := cli.ParseDate(c.Date)
		if err != nil {
			return err
		}
		in.LogDate = &day
	}

	res, err := ctx.Actions.UpsertHabitLog(context.Background(), ctx.Caller, in)
	if err != nil {
		return err
	}

	ctx.Printf("Log %s %s\n", res.Data.LogID, res.Data.Mode)
	return nil
}

type LogListCmd struct {
	Habit *string `help:"Only logs of this habit."`
	JSON  bool    `name:"json" help:"Print the result envelope as JSON."`
}

func (c *LogListCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Actions.ListHabitLogs(context.Background(), ctx.Caller, actions.ListHabitLogsInput{HabitID: c.Habit})
	if err != nil {
		return err
	}

	if c.JSON {
		return ctx.WriteJSON(res)
	}
	if res.Data.Total == 0 {
		ctx.Println("No logs found.")
		return nil
	}
	ctx.Println(cli.HabitLogTable(res.Data.Items))
	return nil
}
