package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/focpwm/internal/foc"
)

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func transformOnce(cmd *cobra.Command, args []string) error {
	vals, err := parseFloats(args)
	if err != nil {
		return err
	}

	table, err := foc.NewTrigTable(tableSize)
	if err != nil {
		return err
	}
	tr := foc.NewTransformer(table)

	th := foc.Normalize(theta)
	phase := foc.ThreePhase{U: vals[0], V: vals[1], W: vals[2]}
	st := foc.Clarke(phase)
	rot := tr.Park(st, th)

	fmt.Println(titleStyle.Render("clarke / park"))
	fmt.Print(row("theta", fmt.Sprintf("%.6f", th)))
	fmt.Print(row("u+v+w", fmt.Sprintf("%.6f", phase.Sum())))
	fmt.Print(row("alpha, beta", fmt.Sprintf("%.6f, %.6f", st.Alpha, st.Beta)))
	fmt.Print(row("id, iq", fmt.Sprintf("%.6f, %.6f", rot.D, rot.Q)))
	return nil
}

func svpwmOnce(cmd *cobra.Command, args []string) error {
	vals, err := parseFloats(args)
	if err != nil {
		return err
	}

	mod, err := foc.NewModulator(foc.ModulatorParams{Ts: ts, Udc: udc, MaxCounter: maxCounter})
	if err != nil {
		return err
	}

	out := mod.Modulate(foc.Stationary{Alpha: vals[0], Beta: vals[1]})
	u, v, w := out.Counter.Ticks()

	fmt.Println(titleStyle.Render("space vector pwm"))
	fmt.Print(row("sector", out.Sector.String()))
	fmt.Print(row("t0, t1, t2", fmt.Sprintf("%.6f, %.6f, %.6f", out.Times.T0, out.Times.T1, out.Times.T2)))
	fmt.Print(row("counters", fmt.Sprintf("%.3f, %.3f, %.3f", out.Counter.U, out.Counter.V, out.Counter.W)))
	fmt.Print(row("ticks", fmt.Sprintf("%d, %d, %d", u, v, w)))
	if out.Saturated {
		fmt.Println(warnStyle.Render(fmt.Sprintf("saturated: |v| exceeds the hexagon (linear limit %.4f)", mod.MaxLinearMagnitude())))
	}
	return nil
}
