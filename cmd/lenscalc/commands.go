package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	report "Lenscalc/internal/calc/report"
	sheet "Lenscalc/internal/calc/sheet"
	spatial "Lenscalc/internal/calc/spatial"

	"github.com/spf13/cobra"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lenscalc",
		Short:         "Spatial resolution calculator for lens and sensor pairs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCmd(), newImportCmd(), newExportCmd())
	return root
}

func lensFlags(cmd *cobra.Command, in *spatial.Input) {
	d := spatial.DefaultInput()
	f := cmd.Flags()
	f.Float64Var(&in.EFL, "efl", d.EFL, "effective focal length, mm")
	f.Float64Var(&in.ResH, "res-h", d.ResH, "horizontal resolution, px")
	f.Float64Var(&in.ResV, "res-v", d.ResV, "vertical resolution, px")
	f.Float64Var(&in.PixelSize, "pixel-size", d.PixelSize, "pixel pitch, mm")
	f.Float64Var(&in.CenterFactor, "center", d.CenterFactor, "center factor, fraction of Nyquist as 1/X")
	f.Float64Var(&in.CornerFactor, "corner", d.CornerFactor, "corner factor, fraction of Nyquist as 1/X")
	f.Float64Var(&in.TestDistance, "distance", d.TestDistance, "test distance, mm")
}

func newAnalyzeCmd() *cobra.Command {
	var in spatial.Input
	var format string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one lens and sensor pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := spatial.Calculate(in)
			switch format {
			case formatJSON:
				return writeJSON(cmd.OutOrStdout(), res)
			case formatTable:
				return writeTable(cmd.OutOrStdout(), in, res)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	lensFlags(cmd, &in)
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table or json")
	return cmd
}

func newImportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Analyze every lens listed in a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			imported, err := sheet.Import(file)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if format == formatJSON {
				return writeJSON(out, imported)
			}
			for _, item := range imported.Results {
				fmt.Fprintf(out, "== %s\n", item.Name)
				if err := writeTable(out, item.Lens, item.Result); err != nil {
					return err
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%d analyzed, %d skipped\n", imported.Count, imported.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table or json")
	return cmd
}

func newExportCmd() *cobra.Command {
	var in spatial.Input
	var name, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the analysis of one lens to a workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := sheet.Export(sheet.Evaluate([]sheet.NamedInput{{Name: name, Lens: in}}))
			if err != nil {
				return err
			}
			defer f.Close()
			if err := f.SaveAs(out); err != nil {
				return fmt.Errorf("save %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	lensFlags(cmd, &in)
	cmd.Flags().StringVar(&name, "name", "lens", "row name")
	cmd.Flags().StringVarP(&out, "out", "o", "spatial.xlsx", "output workbook")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, in spatial.Input, res spatial.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range report.InputFields(in) {
		fmt.Fprintf(tw, "%s\t%s\n", report.Caption(f.Label, f.Unit), report.FormatValue(f.Value, f.Decimals))
	}
	for _, f := range report.NyquistFields(res) {
		fmt.Fprintf(tw, "%s\t%s\n", report.Caption(f.Label, f.Unit), report.FormatValue(f.Value, f.Decimals))
	}
	fmt.Fprintln(tw, "\tCenter\tCorner")
	for _, r := range report.Rows(res) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", report.Caption(r.Label, r.Unit),
			report.FormatValue(r.Center, r.Decimals), report.FormatValue(r.Corner, r.Decimals))
	}
	return tw.Flush()
}
