// Package transform implements the feature transformation stage of the
// decoding pipeline: an optional scaling pass, a pluggable scored
// transformation method, and score-based feature selection.
package transform

import (
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/neurodecode/gomvpa/pkg/errors"
)

// Method is the transform capability contract. Given train and test feature
// matrices with identical column counts, an implementation returns the
// transformed matrices, again with identical column counts, plus one score
// per transformed column. The score semantics belong to the method (the
// shipped PCA reports variance explained); the selection stage only assumes
// that larger is better.
//
// Apply must not mutate its inputs and must not retain them after returning.
// The returned Config is the applied configuration: a copy of cfg with any
// method-chosen parameters filled in.
type Method interface {
	Apply(cfg Config, train, test mat.Matrix) (Config, *mat.Dense, *mat.Dense, []float64, error)
}

// MethodSpec identifies a transform method either by registry name or by a
// ready capability object. The two resolution paths are indistinguishable to
// callers of FeatureTransformer; both funnel through Resolve.
//
// The zero value is invalid and fails at Resolve with ErrUnknownMethod, so a
// malformed spec is rejected before any matrix work happens.
type MethodSpec struct {
	name string
	obj  Method
}

// ByName returns a spec that resolves name against the method registry.
func ByName(name string) MethodSpec {
	return MethodSpec{name: name}
}

// ByObject returns a spec wrapping a ready capability object.
func ByObject(m Method) MethodSpec {
	return MethodSpec{obj: m}
}

// IsZero reports whether the spec carries neither a name nor an object.
func (s MethodSpec) IsZero() bool {
	return s.name == "" && s.obj == nil
}

// String returns a human-readable identifier for logs.
func (s MethodSpec) String() string {
	switch {
	case s.obj != nil:
		return fmt.Sprintf("object(%T)", s.obj)
	case s.name != "":
		return s.name
	default:
		return "<unset>"
	}
}

// Resolve returns the Method this spec stands for. A direct object wins; a
// name is looked up in the registry; anything else is a fatal error.
func (s MethodSpec) Resolve() (Method, error) {
	if s.obj != nil {
		return s.obj, nil
	}
	if s.name != "" {
		registryMu.RLock()
		factory, ok := registry[s.name]
		registryMu.RUnlock()
		if !ok {
			return nil, errors.Wrapf(errors.ErrUnknownMethod, "no method registered under %q", s.name)
		}
		return factory(), nil
	}
	return nil, errors.Wrap(errors.ErrUnknownMethod, "empty method spec")
}

// MethodPCA is the registry key of the shipped default method: a
// variance-scored principal-component rotation.
const MethodPCA = "pca"

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Method{}
)

// Register makes a method constructible by name through ByName. Registering
// an existing name replaces the previous factory.
func Register(name string, factory func() Method) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// RegisteredMethods returns the sorted registry keys.
func RegisteredMethods() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(MethodPCA, func() Method { return NewPCA() })
}
