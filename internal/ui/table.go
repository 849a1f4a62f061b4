package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/artisanexperiences/populate/internal/substitute"
)

// PlaceholderStatus is one row of the inspect table.
type PlaceholderStatus struct {
	Name     string
	Resolved bool
	Value    string
}

func RenderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Primary)).
		Headers(headers...)

	for _, row := range rows {
		t.Row(row...)
	}

	return t.String()
}

// RenderSubstitutionTable lists each placeholder, its value and how many
// times it was replaced.
func RenderSubstitutionTable(subs []substitute.Substitution) string {
	rows := make([][]string, len(subs))
	for i, s := range subs {
		rows[i] = []string{s.Name, s.Value, strconv.Itoa(s.Count)}
	}
	return fmt.Sprintf("\n%s\n", RenderTable([]string{"PLACEHOLDER", "VALUE", "COUNT"}, rows))
}

// RenderPlaceholderTable marks each placeholder resolved or missing.
func RenderPlaceholderTable(rows []PlaceholderStatus) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Primary)).
		Headers("PLACEHOLDER", "STATUS", "VALUE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(Primary)
			}
			if col == 1 && row >= 0 && row < len(rows) {
				if rows[row].Resolved {
					return lipgloss.NewStyle().Foreground(ColorSuccess)
				}
				return lipgloss.NewStyle().Foreground(ColorError)
			}
			return lipgloss.Style{}
		})

	for _, r := range rows {
		status := "missing"
		if r.Resolved {
			status = "resolved"
		}
		t.Row(r.Name, status, r.Value)
	}

	return fmt.Sprintf("\n%s\n", t.String())
}
