package resolver

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Input is one divergence handed to a Chain.
type Input struct {
	Base []byte
	V1   []byte
	V2   []byte
	Hint string
}

type Attempt struct {
	Strategy string
	Outcome  Outcome
}

type ChainResult struct {
	Outcome Outcome
	// Strategy names the strategy that resolved; empty when none did.
	Strategy string
	Attempts []Attempt
}

// Chain escalates through strategies in priority order until one resolves.
type Chain struct {
	strategies []Strategy
}

// NewChain orders strategies by ascending priority, ties broken by name.
func NewChain(strategies ...Strategy) *Chain {
	ordered := slices.Clone(strategies)
	slices.SortStableFunc(ordered, func(a, b Strategy) int {
		da, db := a.Register(), b.Register()
		return cmp.Or(cmp.Compare(da.Priority, db.Priority), strings.Compare(da.Name, db.Name))
	})
	return &Chain{strategies: ordered}
}

func (c *Chain) Strategies() []Descriptor {
	out := make([]Descriptor, 0, len(c.strategies))
	for _, s := range c.strategies {
		out = append(out, s.Register())
	}
	return out
}

// Resolve returns the first Resolved outcome. If every strategy declines, the
// outcome is a CannotResolve listing each "name: reason".
func (c *Chain) Resolve(ctx context.Context, in Input) ChainResult {
	res := ChainResult{Attempts: make([]Attempt, 0, len(c.strategies))}
	reasons := make([]string, 0, len(c.strategies))

	for _, s := range c.strategies {
		name := s.Register().Name
		out := s.AttemptResolve(ctx, in.Base, in.V1, in.V2, in.Hint)
		res.Attempts = append(res.Attempts, Attempt{Strategy: name, Outcome: out})

		switch o := out.(type) {
		case Resolved:
			res.Outcome = o
			res.Strategy = name
			return res
		case CannotResolve:
			reasons = append(reasons, name+": "+o.Reason)
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "no strategies configured")
	}
	res.Outcome = CannotResolve{Reason: strings.Join(reasons, "; ")}
	return res
}

// ResolveBatch resolves inputs with at most limit running at once. Results
// follow input order. limit <= 0 means no limit.
func (c *Chain) ResolveBatch(ctx context.Context, inputs []Input, limit int) ([]ChainResult, error) {
	results := make([]ChainResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Resolve(gctx, in)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
