// Package report renders the comparison between the direct and pooled
// benchmark runs: a terminal summary and an SVG chart artifact.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/poolbench/poolbench/internal/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7"))
	gainStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F4D03F"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Comparison pairs the two run results under comparison
type Comparison struct {
	Direct *domain.RunResult
	Pooled *domain.RunResult
}

// Gain returns the percentage by which the pooled run beat the direct run
// on total duration. Negative when pooling was slower.
func (c *Comparison) Gain() float64 {
	direct := c.Direct.Total().Seconds()
	if direct == 0 {
		return 0
	}
	return (direct - c.Pooled.Total().Seconds()) / direct * 100
}

// Render produces the human-readable comparison summary
func Render(c *Comparison) string {
	rows := make([][]string, 0, len(domain.Operations)+1)
	for _, op := range domain.Operations {
		rows = append(rows, []string{
			capitalize(string(op)),
			formatSeconds(c.Direct.Phases[op].Seconds()),
			formatSeconds(c.Pooled.Phases[op].Seconds()),
		})
	}
	rows = append(rows, []string{
		"Total",
		formatSeconds(c.Direct.Total().Seconds()),
		formatSeconds(c.Pooled.Total().Seconds()),
	})

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("OPERATION", "WITHOUT POOLING", "WITH POOLING").
		Rows(rows...)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf(
		"Performance comparison (%d CRUD cycles, %d workers)",
		c.Direct.DataPoints, c.Direct.Workers,
	)))
	b.WriteString("\n")
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(gainStyle.Render(fmt.Sprintf("Performance gain with pooling: %.2f%%", c.Gain())))
	b.WriteString("\n")

	return b.String()
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.3fs", s)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
