package resolver

import (
	"fmt"
	"slices"
)

type Constructor func(opts ...Option) Strategy

var constructors = map[string]Constructor{
	LWWName: func(opts ...Option) Strategy {
		return NewLWW(opts...)
	},
	AddWinsName: func(opts ...Option) Strategy {
		return NewAddWins(opts...)
	},
	FieldMergeName: func(...Option) Strategy {
		return NewFieldMerge()
	},
	SemanticMergeName: func(...Option) Strategy {
		return NewSemanticMerge()
	},
	MultiValueName: func(...Option) Strategy {
		return NewMultiValue()
	},
}

// Fabric builds strategies by name with a shared set of options.
type Fabric struct {
	opts []Option
}

func NewFabric(opts ...Option) *Fabric {
	return &Fabric{opts: opts}
}

func (f *Fabric) New(name string) (Strategy, error) {
	constructor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStrategyNotFound, name)
	}
	return constructor(f.opts...), nil
}

// All builds every known strategy.
func (f *Fabric) All() []Strategy {
	out := make([]Strategy, 0, len(constructors))
	for _, name := range Names() {
		s, _ := f.New(name)
		out = append(out, s)
	}
	return out
}

// Names lists the known strategy names in lexical order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (f *Fabric) Names() []string {
	return Names()
}
