package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/ecohabits/internal/constants"
	"github.com/julianstephens/ecohabits/internal/models"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	archivedStyle = cellStyle.Foreground(lipgloss.Color("241"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// HabitTable renders habits; archived rows are dimmed.
func HabitTable(habits []models.Habit) string {
	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		status := "active"
		if !h.IsActive {
			status = "archived"
		}
		rows = append(rows, []string{
			h.ID,
			h.Name,
			deref(h.Category),
			deref(h.Frequency),
			formatFloat(h.TargetPerPeriod),
			formatImpact(h.ImpactPerUnit, h.ImpactUnit),
			status,
		})
	}

	return newTable("ID", "Name", "Category", "Frequency", "Target", "Impact", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(habits) && !habits[row].IsActive {
				return archivedStyle
			}
			return cellStyle
		}).
		String()
}

// HabitLogTable renders logs in the order given.
func HabitLogTable(logs []models.HabitLog) string {
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			l.ID,
			l.HabitID,
			l.LogDate.Local().Format(constants.DateFormat),
			formatFloat(l.Quantity),
			deref(l.Notes),
		})
	}

	return newTable("ID", "Habit", "Date", "Quantity", "Notes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func formatFloat(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatImpact(per *float64, unit *string) string {
	if per == nil {
		return "-"
	}
	if unit == nil {
		return formatFloat(per)
	}
	return formatFloat(per) + " " + *unit
}
