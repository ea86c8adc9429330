package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hueprobe/internal/colour"
)

func newNamesCmd() *cobra.Command {
	var preview string

	cmd := &cobra.Command{
		Use:   "names",
		Short: "List the reference colours used for naming",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			show, err := resolvePreview(preview, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), formatReferenceTable(colour.ReferenceColours[:], show))
			return err
		},
	}
	cmd.Flags().StringVar(&preview, "preview", previewAuto, "colour swatches in output (auto, always, never)")

	return cmd
}

func formatReferenceTable(refs []colour.ReferenceColour, preview bool) string {
	headers := []string{"Name", "Hex", "RGB"}
	if preview {
		headers = append(headers, "Colour")
	}
	table := NewTable(headers...)

	for _, ref := range refs {
		row := []string{ref.Name, ref.RGB.Hex(), fmt.Sprintf("%d,%d,%d", ref.RGB.R, ref.RGB.G, ref.RGB.B)}
		if preview {
			row = append(row, colour.ColourPreviewWithText(ref.RGB, ref.Name, 10))
		}
		table.AddRow(row...)
	}
	return table.Render()
}

func newNameCmd() *cobra.Command {
	var preview string

	cmd := &cobra.Command{
		Use:   "name <colour>",
		Short: "Name a single colour",
		Long: `Print the reference name closest to a colour.

The colour may be written as #rrggbb, rrggbb, #rgb, "r,g,b" or "rgb(r, g, b)".

Examples:
  hueprobe name '#1e90ff'
  hueprobe name 250,128,114`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rgb, err := colour.ParseColour(args[0])
			if err != nil {
				return err
			}
			show, err := resolvePreview(preview, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			name := colour.NameColour(rgb)
			if show {
				fmt.Fprintln(cmd.OutOrStdout(), colour.FormatColourWithLabel(rgb, name, 8))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&preview, "preview", previewAuto, "colour swatch in output (auto, always, never)")

	return cmd
}
