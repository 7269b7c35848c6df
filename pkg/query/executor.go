package query

import (
	"context"
	"io"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/transport"
	"go.uber.org/zap"
)

// Option for the executor
type Option func(*Executor)

// WithLogger sets a logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.l = l
		}
	}
}

// Executor issues graph queries through a transport.
//
// An empty language defaults to SPARQL. A zero limit means no limit.
type Executor struct {
	transport transport.Transport
	l         *zap.Logger
}

// NewExecutor builds a query executor
func NewExecutor(t transport.Transport, opts ...Option) *Executor {
	e := &Executor{
		transport: t,
		l:         zap.NewNop(),
	}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

func languageOrDefault(language string) string {
	if language == "" {
		return transport.LanguageSparql
	}
	return language
}

// Query runs a query and collects all result rows
func (e *Executor) Query(ctx context.Context, text, language string, limit int) ([]model.Binding, error) {
	rows := make([]model.Binding, 0)
	err := e.Stream(ctx, text, language, limit, func(b model.Binding) error {
		rows = append(rows, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Stream runs a query and calls fn for each result row, as rows are parsed.
// An error returned by fn stops the iteration and is returned.
func (e *Executor) Stream(ctx context.Context, text, language string, limit int, fn func(model.Binding) error) error {
	language = languageOrDefault(language)
	e.l.Debug("graph query", zap.String("language", language), zap.Int("limit", limit))
	rdr, err := e.transport.RunGraphQuery(ctx, text, language, limit, transport.FormatSparql)
	if err != nil {
		return err
	}
	defer func() {
		_ = rdr.Close()
	}()

	dec := NewDecoder(rdr)
	for {
		b, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(b); err != nil {
			return err
		}
	}
}

// Count runs a query in count mode and yields the number of rows it would return
func (e *Executor) Count(ctx context.Context, text, language string) (int, error) {
	language = languageOrDefault(language)
	e.l.Debug("graph count query", zap.String("language", language))
	rdr, err := e.transport.RunGraphQuery(ctx, text, language, 0, transport.FormatCount)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = rdr.Close()
	}()
	return ParseCount(rdr)
}
