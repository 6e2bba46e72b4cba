package mapping

import (
	"fmt"
	"reflect"
	"sort"
)

// Kind classifies how a destination field is populated when translating a
// transport DTO into a persisted entity shape.
type Kind int

const (
	// KindIgnore marks a server-owned field: never copied from the DTO,
	// always supplied by the service layer (ids, foreign keys, audit
	// timestamps, navigation collections).
	KindIgnore Kind = iota
	// KindMap copies the field verbatim from the DTO.
	KindMap
	// KindCompute derives the field from context not present verbatim in
	// the DTO.
	KindCompute
)

func (k Kind) String() string {
	switch k {
	case KindIgnore:
		return "ignore"
	case KindMap:
		return "map"
	case KindCompute:
		return "compute"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Rule binds a policy kind to the function that realizes it. Ignore rules
// carry no function: the translator never touches those fields.
type Rule[S, D any] struct {
	kind  Kind
	apply func(src *S, dst *D)
}

func Ignore[S, D any]() Rule[S, D] {
	return Rule[S, D]{kind: KindIgnore}
}

func Map[S, D any](copy func(src *S, dst *D)) Rule[S, D] {
	return Rule[S, D]{kind: KindMap, apply: copy}
}

func Compute[S, D any](derive func(src *S, dst *D)) Rule[S, D] {
	return Rule[S, D]{kind: KindCompute, apply: derive}
}

// Translator applies a per-field policy table to produce a destination value
// from an untrusted source DTO. The table must be total over the destination
// struct: construction fails on any unclassified or unknown field, so a policy
// gap is a startup defect rather than a request-time fallback.
type Translator[S, D any] struct {
	name  string
	rules map[string]Rule[S, D]
	order []string
}

// NewTranslator validates the policy table against the exported fields of D.
func NewTranslator[S, D any](name string, rules map[string]Rule[S, D]) (*Translator[S, D], error) {
	var zero D
	dt := reflect.TypeOf(zero)
	if dt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("mapping %s: destination must be a struct, got %s", name, dt.Kind())
	}

	fields := make(map[string]bool, dt.NumField())
	for i := 0; i < dt.NumField(); i++ {
		f := dt.Field(i)
		if !f.IsExported() {
			continue
		}
		fields[f.Name] = true
		rule, ok := rules[f.Name]
		if !ok {
			return nil, fmt.Errorf("mapping %s: field %s has no declared policy", name, f.Name)
		}
		if rule.kind != KindIgnore && rule.apply == nil {
			return nil, fmt.Errorf("mapping %s: field %s declares %s without a function", name, f.Name, rule.kind)
		}
	}

	order := make([]string, 0, len(rules))
	for field, rule := range rules {
		if !fields[field] {
			return nil, fmt.Errorf("mapping %s: policy declared for unknown field %s", name, field)
		}
		if rule.kind != KindIgnore {
			order = append(order, field)
		}
	}
	sort.Strings(order)

	return &Translator[S, D]{name: name, rules: rules, order: order}, nil
}

// MustTranslator is NewTranslator for package-level table declarations;
// a defective table stops the process at startup.
func MustTranslator[S, D any](name string, rules map[string]Rule[S, D]) *Translator[S, D] {
	t, err := NewTranslator(name, rules)
	if err != nil {
		panic(err)
	}
	return t
}

// Apply runs the Map and Compute rules against dst in a fixed field order.
// Ignored fields are left exactly as the caller provided them, so repeated
// application with the same inputs is idempotent.
func (t *Translator[S, D]) Apply(src *S, dst *D) {
	for _, field := range t.order {
		t.rules[field].apply(src, dst)
	}
}

// Translate is Apply into a fresh zero destination.
func (t *Translator[S, D]) Translate(src *S) *D {
	dst := new(D)
	t.Apply(src, dst)
	return dst
}

// Policy reports the declared kind for a destination field.
func (t *Translator[S, D]) Policy(field string) (Kind, bool) {
	rule, ok := t.rules[field]
	return rule.kind, ok
}

func (t *Translator[S, D]) Name() string {
	return t.name
}
