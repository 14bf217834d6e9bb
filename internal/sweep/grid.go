// Package sweep evaluates a run metric over a grid of config parameters.
package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/san-kum/focpwm/internal/config"
	"github.com/san-kum/focpwm/internal/experiment"
)

// Setters maps sweepable parameter names onto a config.
var Setters = map[string]func(*config.Config, float64){
	"id":         func(c *config.Config, v float64) { c.Command.Id = v },
	"iq":         func(c *config.Config, v float64) { c.Command.Iq = v },
	"udc":        func(c *config.Config, v float64) { c.Modulator.Udc = v },
	"angle_step": func(c *config.Config, v float64) { c.Command.AngleStep = v },
}

// Point is one evaluated grid point.
type Point struct {
	Params  map[string]float64
	Metrics map[string]float64
	Err     error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Workers bounds concurrent runs; 0 means GOMAXPROCS.
	Workers int
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d params but %d ranges", len(params), len(ranges))
	}
	for _, p := range params {
		if _, ok := Setters[p]; !ok {
			return nil, fmt.Errorf("unknown sweep parameter: %s", p)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Evaluate runs base with every combination of parameter values. Points are
// independent runs and execute concurrently; the result keeps grid order.
func (g *GridSearch) Evaluate(ctx context.Context, base *config.Config) ([]Point, error) {
	grid := make([]map[string]float64, 0)
	err := g.walk(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		grid = append(grid, params)
	})
	if err != nil {
		return nil, err
	}

	workers := g.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	points := make([]Point, len(grid))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, params := range grid {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, params map[string]float64) {
			defer wg.Done()
			defer func() { <-sem }()
			points[idx] = g.run(ctx, base, params)
		}(i, params)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// Search returns the grid point minimizing metric.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metric string) (map[string]float64, float64, error) {
	points, err := g.Evaluate(ctx, base)
	if err != nil {
		return nil, 0, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	for _, p := range points {
		if p.Err != nil {
			continue
		}
		val, ok := p.Metrics[metric]
		if !ok {
			return nil, 0, fmt.Errorf("metric %s not produced by routine %s", metric, base.Routine)
		}
		if val < best {
			best = val
			bestParams = p.Params
		}
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("no grid point ran successfully")
	}
	return bestParams, best, nil
}

// MaxWhere returns the largest value of param among points whose metric is
// at most limit.
func MaxWhere(points []Point, param, metric string, limit float64) (float64, bool) {
	sorted := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Err == nil {
			sorted = append(sorted, p)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Params[param] > sorted[j].Params[param] })

	for _, p := range sorted {
		if p.Metrics[metric] <= limit {
			return p.Params[param], true
		}
	}
	return 0, false
}

func (g *GridSearch) walk(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		visit(params)
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.walk(ctx, depth+1, current, visit); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}

func (g *GridSearch) run(ctx context.Context, base *config.Config, params map[string]float64) Point {
	cfg := *base
	for name, v := range params {
		Setters[name](&cfg, v)
	}

	p := Point{Params: params}
	exp := experiment.New(&cfg)
	if err := exp.Setup(nil, nil); err != nil {
		p.Err = err
		return p
	}
	result, err := exp.Run(ctx)
	if err != nil {
		p.Err = err
		return p
	}
	p.Metrics = result.Metrics
	return p
}
