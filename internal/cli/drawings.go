package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sdjayna/penplot/pkg/drawing"
)

// drawingsCommand lists the registered drawing generators.
func (c *CLI) drawingsCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "drawings",
		Aliases: []string{"ls"},
		Short:   "List the available drawings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := drawing.Builtins().List()
			if plain {
				return writeDrawingIDs(cmd.OutOrStdout(), defs)
			}
			fmt.Fprintln(cmd.OutOrStdout(), drawingsTable(defs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print one drawing id per line")
	return cmd
}

func writeDrawingIDs(w io.Writer, defs []drawing.Definition) error {
	for _, d := range defs {
		if _, err := fmt.Fprintln(w, d.ID); err != nil {
			return err
		}
	}
	return nil
}

func drawingsTable(defs []drawing.Definition) string {
	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, []string{d.ID, d.Name, d.Description})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return StyleHighlight.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		}).
		Render()
}
