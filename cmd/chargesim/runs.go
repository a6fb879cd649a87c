package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/chargesim/internal/analysis"
	"github.com/san-kum/chargesim/internal/storage"
)

var (
	plotColumns    []string
	analyzeColumns []string
	exportFormat   string
	phaseAxes      []string
)

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}
}

func plotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id|latest]",
		Short: "plot trace columns of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().StringSliceVar(&plotColumns, "column", []string{"kinetic_energy", "reading"},
		"columns to plot ("+strings.Join(storage.Columns, ", ")+")")
	return cmd
}

func exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [run_id|latest]",
		Short: "write a run's metadata or trace to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "json", "json, yaml or csv")
	return cmd
}

func analyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [run_id|latest]",
		Short: "frequency analysis of a trace column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	cmd.Flags().StringSliceVar(&analyzeColumns, "column", []string{"kinetic_energy"}, "column to analyze")
	cmd.Flags().StringSliceVar(&phaseAxes, "phase", nil, "two columns to plot against each other, e.g. kinetic_energy,reading")
	return cmd
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir())
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tTICKS\tDT\tCHARGES\tLEVELS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Dt,
			run.Charges,
			len(run.Levels),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir())
	runID, err := resolveRun(st, args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("ticks: %d\n\n", meta.Ticks)

	for _, col := range plotColumns {
		data, err := st.LoadColumn(runID, col)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return fmt.Errorf("no data to plot")
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir())
	runID, err := resolveRun(st, args[0])
	if err != nil {
		return err
	}

	switch exportFormat {
	case "json", "yaml":
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		if exportFormat == "yaml" {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(meta)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	case "csv":
		rows, err := st.LoadTrace(runID)
		if err != nil {
			return err
		}
		w := csv.NewWriter(os.Stdout)
		if err := w.Write(storage.Columns); err != nil {
			return err
		}
		for _, r := range rows {
			if err := w.Write(r.Record()); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	}
	return fmt.Errorf("unknown export format: %s", exportFormat)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir())
	runID, err := resolveRun(st, args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	for _, col := range analyzeColumns {
		data, err := st.LoadColumn(runID, col)
		if err != nil {
			return err
		}
		if len(data) < 2 {
			return fmt.Errorf("no data")
		}

		s := analysis.PowerSpectrum(data, meta.Dt)
		plotData := s.Power[1:max(len(s.Power)/4, 2)]
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", col)),
		)
		fmt.Println(graph)
		fmt.Println()

		freq, _ := analysis.DominantFrequency(data, meta.Dt)
		fmt.Printf("dominant frequency: %.3f hz\n", freq)
		if freq > 0 {
			fmt.Printf("period: %.3f s\n", 1.0/freq)
		}
		fmt.Println()
	}

	if len(phaseAxes) == 0 {
		return nil
	}
	if len(phaseAxes) != 2 {
		return fmt.Errorf("--phase takes exactly two columns")
	}
	xs, err := st.LoadColumn(runID, phaseAxes[0])
	if err != nil {
		return err
	}
	ys, err := st.LoadColumn(runID, phaseAxes[1])
	if err != nil {
		return err
	}
	portrait, err := analysis.NewPhasePortrait(phaseAxes[0], xs, phaseAxes[1], ys)
	if err != nil {
		return err
	}
	fmt.Print(portrait.Render(70, 20))
	return nil
}
