package analysis

import (
	"context"
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/vehicle"
)

const DefaultWorkers = 4

type SweepStatus string

const (
	Complete SweepStatus = "complete"
	Partial  SweepStatus = "partial"
)

// SweepParameter is one axis of a sweep: a model parameter and its values.
type SweepParameter struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
}

type SweepRequest struct {
	Parameters []SweepParameter `json:"parameters" yaml:"parameters"`
	Options    DynamicOptions   `json:"options" yaml:"options"`
	Workers    int              `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// SweepItem is the outcome of one parameter combination. Error is set
// when the item failed; Result then holds whatever was computed.
type SweepItem struct {
	Index  int                `json:"index"`
	Params map[string]float64 `json:"params"`
	Result DynamicResult      `json:"result"`
	Error  string             `json:"error,omitempty"`
}

type SweepResult struct {
	Status   SweepStatus `json:"status"`
	Items    []SweepItem `json:"items"`
	Warnings []string    `json:"warnings,omitempty"`
}

// ProgressFunc is told about every finished item. It is called from the
// worker goroutines, one call at a time.
type ProgressFunc func(done, total int, item SweepItem)

// Grid is the cartesian product of the parameter values, first parameter
// varying slowest.
func Grid(params []SweepParameter) []map[string]float64 {
	combos := []map[string]float64{{}}
	for _, p := range params {
		next := make([]map[string]float64, 0, len(combos)*len(p.Values))
		for _, c := range combos {
			for _, v := range p.Values {
				m := make(map[string]float64, len(c)+1)
				for k, x := range c {
					m[k] = x
				}
				m[p.Name] = v
				next = append(next, m)
			}
		}
		combos = next
	}
	return combos
}

func (req SweepRequest) validate(base vehicle.Model) error {
	if len(req.Parameters) == 0 {
		return dynamo.Invalid("sweep needs at least one parameter")
	}
	trial := base.Clone()
	for _, p := range req.Parameters {
		if len(p.Values) == 0 {
			return dynamo.Invalid("parameter %q has no values", p.Name)
		}
		if err := trial.SetParam(p.Name, p.Values[0]); err != nil {
			return err
		}
	}
	return ValidateDynamic(req.Options)
}

// RunSweep runs one dynamic analysis of base per combination in the grid of
// req.Parameters, at most req.Workers at a time. Every item works on its own
// clone of base. Failed items become warnings and make the status partial;
// only cancellation of ctx is returned as an error. Items keep grid order.
func RunSweep(ctx context.Context, base vehicle.Model, req SweepRequest, progress ProgressFunc) (SweepResult, error) {
	if err := req.validate(base); err != nil {
		return SweepResult{}, err
	}
	workers := req.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	grid := Grid(req.Parameters)
	items := make([]SweepItem, len(grid))

	var mu sync.Mutex
	done := 0

	var g errgroup.Group
	g.SetLimit(workers)
	for i, params := range grid {
		g.Go(func() error {
			item := runItem(ctx, base, i, params, req.Options)
			items[i] = item

			if progress != nil {
				mu.Lock()
				done++
				progress(done, len(grid), item)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	res := SweepResult{Status: Complete, Items: items}
	for _, it := range items {
		if it.Error != "" {
			res.Status = Partial
			res.Warnings = append(res.Warnings, fmt.Sprintf("item %d %v: %s", it.Index, it.Params, it.Error))
		}
	}
	return res, ctx.Err()
}

func runItem(ctx context.Context, base vehicle.Model, index int, params map[string]float64, opts DynamicOptions) SweepItem {
	item := SweepItem{Index: index, Params: params}
	if err := ctx.Err(); err != nil {
		item.Error = err.Error()
		return item
	}

	m := base.Clone()
	for name, v := range params {
		if err := m.SetParam(name, v); err != nil {
			item.Error = err.Error()
			return item
		}
	}

	res, err := RunDynamic(ctx, m, opts, nil)
	item.Result = res
	if err != nil {
		item.Error = err.Error()
	}
	return item
}

// Best returns the successful item with the smallest peak displacement
// magnitude on channel. ok is false when no item succeeded.
func (r SweepResult) Best(channel int) (best SweepItem, ok bool) {
	lowest := math.Inf(1)
	for _, it := range r.Items {
		if it.Error != "" || channel >= len(it.Result.Maximum.Displacement) {
			continue
		}
		if v := math.Abs(it.Result.Maximum.Displacement[channel]); v < lowest {
			lowest, best, ok = v, it, true
		}
	}
	return best, ok
}
