package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/focpwm/internal/analysis"
	"github.com/san-kum/focpwm/internal/config"
	"github.com/san-kum/focpwm/internal/experiment"
	"github.com/san-kum/focpwm/internal/export"
	"github.com/san-kum/focpwm/internal/loop"
	"github.com/san-kum/focpwm/internal/storage"
)

func defaultSeries(routine string) []string {
	if routine == string(loop.SVPWM) {
		return []string{"cu", "cv", "cw"}
	}
	return []string{"u", "v", "w"}
}

func loadRun(runID string) (*storage.RunMetadata, []loop.Record, error) {
	st := openStore()
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	records, err := st.LoadRecords(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("run %s has no records", runID)
	}
	return meta, records, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROUTINE\tTIME\tPERIODS\tID*\tIQ*\tUDC\tSAT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3f\t%.3f\t%.2f\t%d\n",
			run.ID,
			run.Routine,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Periods,
			run.Id,
			run.Iq,
			run.Udc,
			run.Saturated,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args[0])
	if err != nil {
		return err
	}

	names := series
	if len(names) == 0 {
		names = defaultSeries(meta.Routine)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("routine: %s\n", meta.Routine)
	fmt.Printf("periods: %d\n\n", len(records))

	data := make([][]float64, 0, len(names))
	for _, name := range names {
		s, err := analysis.Series(records, name)
		if err != nil {
			return fmt.Errorf("%w (available: %v)", err, analysis.SeriesNames())
		}
		data = append(data, s)
	}

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue, asciigraph.Yellow),
		asciigraph.SeriesLegends(names...),
		asciigraph.Caption(fmt.Sprintf("%s vs period", meta.Routine)),
	)
	fmt.Println(graph)
	return nil
}

func locusRun(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args[0])
	if err != nil {
		return err
	}

	l := analysis.NewLocus(records)
	lo, hi := l.Radius()
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("|v| in [%.4f, %.4f]", lo, hi)
	if meta.Routine == string(loop.SVPWM) {
		fmt.Printf(", linear limit %.4f", meta.Udc/math.Sqrt(3))
	}
	fmt.Print("\n\n")
	fmt.Print(l.ToASCII(61, 31))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args[0])
	if err != nil {
		return err
	}

	names := series
	if len(names) == 0 {
		names = defaultSeries(meta.Routine)[:1]
	}

	fmt.Printf("spectrum analysis: %s\n", meta.ID)
	fmt.Printf("routine: %s\n\n", meta.Routine)

	for _, name := range names {
		data, err := analysis.Series(records, name)
		if err != nil {
			return err
		}
		sp, err := analysis.NewSpectrum(data)
		if err != nil {
			return err
		}

		view := sp.Amplitudes
		if len(view) > 160 {
			view = view[:160]
		}
		fmt.Println(asciigraph.Plot(view,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("amplitude spectrum (%s)", name)),
		))
		fmt.Println()

		bin, amp := sp.Fundamental()
		fmt.Printf("%s: dc %.4f, fundamental bin %d amplitude %.4f", name, sp.DC(), bin, amp)
		if bin > 0 {
			fmt.Printf(" (%.2f periods per cycle)", float64(len(data))/float64(bin))
		}
		if thd := sp.THD(); !math.IsNaN(thd) {
			fmt.Printf(", thd %.2f%%", thd*100)
		}
		fmt.Print("\n\n")
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = meta.ID + ".svg"
	}

	svg := export.LocusToSVG(analysis.NewLocus(records).Points, meta.Udc, svgSize, "#00ff88")
	if svg == "" {
		return fmt.Errorf("run %s has too few records to draw", meta.ID)
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func exportPNG(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args[0])
	if err != nil {
		return err
	}

	names := series
	if len(names) == 0 {
		names = defaultSeries(meta.Routine)
	}
	lines := make([]export.Line, 0, len(names))
	for _, name := range names {
		data, err := analysis.Series(records, name)
		if err != nil {
			return err
		}
		lines = append(lines, export.Line{Name: name, Y: data})
	}

	ylabel := "V"
	if meta.Routine == string(loop.SVPWM) {
		ylabel = "counts"
	}
	p, err := export.WaveformPlot(fmt.Sprintf("%s (%s)", meta.Routine, meta.ID), ylabel, lines)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = meta.ID + ".png"
	}
	if err := export.SavePNG(p, 8, 5, 150, path); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	if len(args) == 0 {
		fmt.Println("routines:")
		for _, name := range registry.ListRoutines() {
			desc, _ := registry.Describe(name)
			fmt.Printf("  %-20s %s\n", name, desc)
		}
		return nil
	}

	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for routine: %s\n", args[0])
		return nil
	}
	sort.Strings(presets)
	fmt.Printf("presets for %s:\n", args[0])
	for _, p := range presets {
		c := config.GetPreset(args[0], p)
		fmt.Printf("  %-16s id=%.2f iq=%.2f step=%.3f periods=%d\n", p, c.Command.Id, c.Command.Iq, c.Command.AngleStep, c.Command.Periods)
	}
	return nil
}
