package habits

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ecohabits/internal/actions"
	"github.com/julianstephens/ecohabits/internal/cli"
	"github.com/julianstephens/ecohabits/internal/constants"
	"github.com/julianstephens/ecohabits/internal/models"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	Edit    HabitEditCmd    `cmd:"" help:"Change fields of a habit."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit. Its logs are kept."`
	List    HabitListCmd    `cmd:"" help:"List your habits."`
}

type HabitAddCmd struct {
	Name            string   `help:"Habit name." xor:"source"`
	Description     *string  `help:"Longer description."`
	Category        *string  `help:"Free-form category, e.g. transport."`
	Frequency       *string  `help:"Conventionally daily, weekly or monthly."`
	TargetPerPeriod *float64 `name:"target" help:"Target occurrences per period (> 0)."`
	ImpactPerUnit   *float64 `name:"impact" help:"Impact per unit, e.g. kg CO2 saved."`
	ImpactUnit      *string  `help:"Unit of --impact, e.g. kg_co2."`
	Interactive     bool     `short:"i" help:"Fill in the habit with a form." xor:"source"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	in := actions.CreateHabitInput{
		Name:            c.Name,
		Description:     c.Description,
		Category:        c.Category,
		Frequency:       c.Frequency,
		TargetPerPeriod: c.TargetPerPeriod,
		ImpactPerUnit:   c.ImpactPerUnit,
		ImpactUnit:      c.ImpactUnit,
	}
	if c.Interactive {
		var err error
		if in, err = runHabitForm(); err != nil {
			return err
		}
	}

	res, err := ctx.Actions.CreateHabit(context.Background(), ctx.Caller, in)
	if err != nil {
		return err
	}

	ctx.Printf("Added habit %q (%s)\n", in.Name, res.Data.HabitID)
	return nil
}

type habitForm struct {
	Name        string
	Description string
	Category    string
	Frequency   string
	Target      string
	Impact      string
	ImpactUnit  string
}

func positiveFloat(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("must be a number")
	}
	if !(f > 0) {
		return fmt.Errorf("must be greater than 0")
	}
	return nil
}

func anyFloat(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func newHabitForm(fm *habitForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewInput().
				Title("Category").
				Placeholder("transport, energy, waste...").
				Value(&fm.Category),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(
					huh.NewOption("None", ""),
					huh.NewOption("Daily", constants.FrequencyDaily),
					huh.NewOption("Weekly", constants.FrequencyWeekly),
					huh.NewOption("Monthly", constants.FrequencyMonthly),
				).
				Value(&fm.Frequency),
			huh.NewInput().
				Title("Target per period").
				Value(&fm.Target).
				Validate(positiveFloat),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Impact per unit").
				Description("Stored for later estimates").
				Value(&fm.Impact).
				Validate(anyFloat),
			huh.NewInput().
				Title("Impact unit").
				Placeholder("kg_co2").
				Value(&fm.ImpactUnit),
		),
	).WithTheme(huh.ThemeDracula())
}

func runHabitForm() (actions.CreateHabitInput, error) {
	var fm habitForm
	if err := newHabitForm(&fm).Run(); err != nil {
		return actions.CreateHabitInput{}, err
	}
	return fm.input()
}

// input converts the form answers; blank answers stay unset.
func (fm habitForm) input() (actions.CreateHabitInput, error) {
	in := actions.CreateHabitInput{
		Name:        fm.Name,
		Description: nonBlank(fm.Description),
		Category:    nonBlank(fm.Category),
		Frequency:   nonBlank(fm.Frequency),
		ImpactUnit:  nonBlank(fm.ImpactUnit),
	}
	var err error
	if in.TargetPerPeriod, err = parseFloat(fm.Target); err != nil {
		return in, fmt.Errorf("target: %w", err)
	}
	if in.ImpactPerUnit, err = parseFloat(fm.Impact); err != nil {
		return in, fmt.Errorf("impact: %w", err)
	}
	return in, nil
}

func nonBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parseFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// HabitEditCmd sets only the flags given on the command line.
type HabitEditCmd struct {
	ID              string   `arg:"" help:"Habit ID."`
	Name            *string  `help:"New name."`
	Description     *string  `help:"New description."`
	Category        *string  `help:"New category."`
	Frequency       *string  `help:"New frequency."`
	TargetPerPeriod *float64 `name:"target" help:"New target per period (> 0)."`
	ImpactPerUnit   *float64 `name:"impact" help:"New impact per unit."`
	ImpactUnit      *string  `help:"New impact unit."`
}

func optional[T any](p *T) models.Optional[T] {
	if p == nil {
		return models.Optional[T]{}
	}
	return models.Some(*p)
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	in := actions.UpdateHabitInput{
		ID: c.ID,
		HabitPatch: models.HabitPatch{
			Name:            optional(c.Name),
			Description:     optional(c.Description),
			Category:        optional(c.Category),
			Frequency:       optional(c.Frequency),
			TargetPerPeriod: optional(c.TargetPerPeriod),
			ImpactPerUnit:   optional(c.ImpactPerUnit),
			ImpactUnit:      optional(c.ImpactUnit),
		},
	}

	res, err := ctx.Actions.UpdateHabit(context.Background(), ctx.Caller, in)
	if err != nil {
		return err
	}

	ctx.Printf("Updated habit %s\n", res.Data.HabitID)
	return nil
}

type HabitArchiveCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Actions.ArchiveHabit(context.Background(), ctx.Caller, actions.ArchiveHabitInput{ID: c.ID})
	if err != nil {
		return err
	}

	ctx.Printf("Archived habit %s\n", res.Data.HabitID)
	return nil
}

type HabitListCmd struct {
	All  bool `help:"Include archived habits."`
	JSON bool `name:"json" help:"Print the result envelope as JSON."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Actions.ListMyHabits(context.Background(), ctx.Caller, actions.ListMyHabitsInput{IncludeInactive: c.All})
	if err != nil {
		return err
	}

	if c.JSON {
		return ctx.WriteJSON(res)
	}
	if res.Data.Total == 0 {
		ctx.Println("No habits found.")
		return nil
	}
	ctx.Println(cli.HabitTable(res.Data.Items))
	return nil
}
