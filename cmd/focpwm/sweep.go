package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/focpwm/internal/sweep"
)

var sweepMetric string

// parseAxis reads "name=lo:hi:n".
func parseAxis(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("bad sweep axis %q, want name=lo:hi:n", arg)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("bad sweep range %q, want lo:hi:n", rng)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, err
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, err
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("bad point count %q", parts[2])
	}
	return name, sweep.Linspace(lo, hi, n), nil
}

func sweepRun(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, a := range args {
		name, values, err := parseAxis(a)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	g, err := sweep.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if sweepMetric != "" {
		best, val, err := g.Search(ctx, base, sweepMetric)
		if err != nil {
			return err
		}
		fmt.Printf("minimum %s = %.6f at %v\n", sweepMetric, val, best)
		return nil
	}

	points, err := g.Evaluate(ctx, base)
	if err != nil {
		return err
	}

	var metricNames []string
	for _, p := range points {
		if p.Err == nil {
			for m := range p.Metrics {
				metricNames = append(metricNames, m)
			}
			break
		}
	}
	sort.Strings(metricNames)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(append(append([]string{}, names...), metricNames...), "\t")))
	for _, p := range points {
		cols := make([]string, 0, len(names)+len(metricNames))
		for _, n := range names {
			cols = append(cols, strconv.FormatFloat(p.Params[n], 'f', 4, 64))
		}
		if p.Err != nil {
			cols = append(cols, "error: "+p.Err.Error())
		} else {
			for _, m := range metricNames {
				cols = append(cols, strconv.FormatFloat(p.Metrics[m], 'f', 6, 64))
			}
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	return w.Flush()
}
