package printer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/pterm/pterm"

	"github.com/appfetch/appfetch-cli/internal/style"
)

// PrintTable renders headers and rows as a styled table on stdout,
// falling back to a plain pterm table when colour is disabled.
func PrintTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println(style.DimText.Render("No results."))
		return
	}

	if !style.Enabled {
		data := pterm.TableData{headers}
		data = append(data, rows...)
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		return
	}

	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(style.Subtle)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return style.TableHeader
			}
			return style.TableCell
		}).
		Headers(headers...).
		Rows(rows...)

	fmt.Println(t)
}

// PrintJSON writes v as indented JSON to stdout.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json output: %w", err)
	}
	return nil
}
