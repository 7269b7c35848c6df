package rels

import (
	"bytes"
	"context"
	"sync"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"go.uber.org/zap"
)

// Backend loads and saves the relationship datastream holding the triples.
//
// Load yields nil content when the datastream does not exist yet.
type Backend interface {
	Load(context.Context) ([]byte, error)
	Save(context.Context, []byte) error
}

// BackendFuncs adapts a pair of functions to a Backend
type BackendFuncs struct {
	LoadFunc func(context.Context) ([]byte, error)
	SaveFunc func(context.Context, []byte) error
}

// Load calls LoadFunc
func (b BackendFuncs) Load(ctx context.Context) ([]byte, error) { return b.LoadFunc(ctx) }

// Save calls SaveFunc
func (b BackendFuncs) Save(ctx context.Context, data []byte) error { return b.SaveFunc(ctx, data) }

// Option for relationships
type Option func(*Relationships)

// WithLogger sets a logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Relationships) {
		if l != nil {
			r.l = l
		}
	}
}

// AutoCommit toggles saving after every change. It is enabled by default.
//
// When disabled, changes are kept in memory until Commit is called.
func AutoCommit(enabled bool) Option {
	return func(r *Relationships) {
		r.autoCommit = enabled
	}
}

// TripleOption qualifies the object of an added triple
type TripleOption func(*model.Triple)

// Literal marks the value as a plain literal
func Literal() TripleOption {
	return func(t *model.Triple) {
		t.Literal = true
	}
}

// Datatype marks the value as a typed literal
func Datatype(uri string) TripleOption {
	return func(t *model.Triple) {
		t.Literal = true
		t.Datatype = uri
	}
}

// Relationships edits the triples of one subject.
//
// The relationship document is loaded on first use. Triples keep their storage order,
// duplicates are legal.
type Relationships struct {
	mu         sync.Mutex
	subject    string
	backend    Backend
	graph      *Graph
	autoCommit bool
	dirty      bool
	l          *zap.Logger
}

// New relationships of a subject URI, stored through a backend
func New(subject string, backend Backend, opts ...Option) *Relationships {
	r := &Relationships{
		subject:    subject,
		backend:    backend,
		autoCommit: true,
		l:          zap.NewNop(),
	}
	for _, apply := range opts {
		apply(r)
	}
	r.l = r.l.With(zap.String("subject", subject))
	return r
}

// Subject yields the URI of the subject
func (r *Relationships) Subject() string {
	return r.subject
}

func (r *Relationships) load(ctx context.Context) error {
	if r.graph != nil {
		return nil
	}
	data, err := r.backend.Load(ctx)
	if err != nil {
		return err
	}
	g, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	r.l.Debug("loaded relationships", zap.Int("triples", len(g.triples[r.subject])))
	r.graph = g
	return nil
}

// update applies a change to the triples of the subject and commits it when auto-commit is on.
//
// If the commit fails, the change is reverted.
func (r *Relationships) update(ctx context.Context, fn func([]model.Triple) []model.Triple) error {
	before := r.graph.Triples(r.subject)
	r.graph.SetTriples(r.subject, fn(r.graph.Triples(r.subject)))
	if !r.autoCommit {
		r.dirty = true
		return nil
	}
	if err := r.save(ctx); err != nil {
		r.graph.SetTriples(r.subject, before)
		return err
	}
	return nil
}

func (r *Relationships) save(ctx context.Context) error {
	data, err := Encode(r.graph)
	if err != nil {
		return err
	}
	if err := r.backend.Save(ctx, data); err != nil {
		return err
	}
	r.dirty = false
	return nil
}

// Get yields the triples matching a predicate filter. Empty arguments match anything.
func (r *Relationships) Get(ctx context.Context, namespace, predicate string) ([]model.Triple, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return filter(r.graph.triples[r.subject], namespace, predicate), nil
}

func filter(triples []model.Triple, namespace, predicate string) []model.Triple {
	res := make([]model.Triple, 0, len(triples))
	for _, t := range triples {
		if t.Matches(namespace, predicate, "") {
			res = append(res, t)
		}
	}
	return res
}

// Add appends a triple. The value is a resource unless Literal or Datatype is specified:
// bare identifiers are stored as repository-internal URIs.
func (r *Relationships) Add(ctx context.Context, namespace, predicate, value string, opts ...TripleOption) error {
	if namespace == "" || predicate == "" {
		return status.ErrInvalidAttributeValue.WrapMessage("a relationship requires a predicate namespace and name")
	}
	t := model.Triple{Namespace: namespace, Predicate: predicate, Value: value}
	for _, apply := range opts {
		apply(&t)
	}
	if !t.Literal {
		t.Value = model.ResourceURI(value)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(ctx); err != nil {
		return err
	}
	r.l.Debug("add relationship", zap.String("predicate", t.PredicateURI()), zap.String("value", t.Value))
	return r.update(ctx, func(triples []model.Triple) []model.Triple {
		return append(triples, t)
	})
}

// Remove deletes the triples matching a filter and yields how many were removed.
// Empty arguments match anything, but at least one must be specified: use Clear to remove every triple.
func (r *Relationships) Remove(ctx context.Context, namespace, predicate, value string) (int, error) {
	if namespace == "" && predicate == "" && value == "" {
		return 0, status.ErrUnconstrainedRemove
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(ctx); err != nil {
		return 0, err
	}
	return r.remove(ctx, func(t model.Triple) bool { return t.Matches(namespace, predicate, value) })
}

// Clear removes all the triples of the subject and yields how many were removed
func (r *Relationships) Clear(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(ctx); err != nil {
		return 0, err
	}
	return r.remove(ctx, func(model.Triple) bool { return true })
}

func (r *Relationships) remove(ctx context.Context, match func(model.Triple) bool) (int, error) {
	var removed int
	for _, t := range r.graph.triples[r.subject] {
		if match(t) {
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	r.l.Debug("remove relationships", zap.Int("count", removed))
	err := r.update(ctx, func(triples []model.Triple) []model.Triple {
		kept := triples[:0]
		for _, t := range triples {
			if !match(t) {
				kept = append(kept, t)
			}
		}
		return kept
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Parents yields the identifiers of the collections then the objects this subject is a member of
func (r *Relationships) Parents(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	triples := r.graph.triples[r.subject]
	res := objects(filter(triples, model.RelsExtNamespace, model.PredicateIsMemberOfCollection))
	return append(res, objects(filter(triples, model.RelsExtNamespace, model.PredicateIsMemberOf))...), nil
}

// Models yields the identifiers of the content models of the subject
func (r *Relationships) Models(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return objects(filter(r.graph.triples[r.subject], model.ModelNamespace, model.PredicateHasModel)), nil
}

// SetModels replaces the content models of the subject
func (r *Relationships) SetModels(ctx context.Context, models []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(ctx); err != nil {
		return err
	}
	return r.update(ctx, func(triples []model.Triple) []model.Triple {
		kept := triples[:0]
		for _, t := range triples {
			if !t.Matches(model.ModelNamespace, model.PredicateHasModel, "") {
				kept = append(kept, t)
			}
		}
		for _, m := range models {
			kept = append(kept, model.Triple{
				Namespace: model.ModelNamespace,
				Predicate: model.PredicateHasModel,
				Value:     model.ResourceURI(m),
			})
		}
		return kept
	})
}

func objects(triples []model.Triple) []string {
	res := make([]string, 0, len(triples))
	for _, t := range triples {
		if pid, ok := t.ObjectIdentifier(); ok {
			res = append(res, pid)
			continue
		}
		res = append(res, t.Value)
	}
	return res
}

// Commit saves pending changes. It does nothing when there are none.
func (r *Relationships) Commit(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.dirty {
		return nil
	}
	return r.save(ctx)
}

// Refresh drops the loaded document, which is loaded again on next use.
// Uncommitted changes are lost.
func (r *Relationships) Refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graph = nil
	r.dirty = false
}
