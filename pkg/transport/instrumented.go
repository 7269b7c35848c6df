package transport

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	otlog "github.com/opentracing/opentracing-go/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Instrument decorates a transport with tracing spans and debug logs.
//
// A nil tracer uses the opentracing global tracer, a nil logger disables logs.
func Instrument(tr opentracing.Tracer, logger *zap.Logger, t Transport) Transport {
	if tr == nil {
		tr = opentracing.GlobalTracer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &instrumentedTransport{
		tr:        tr,
		transport: t,
		l:         logger.With(zap.String("component", "transport")),
	}
}

type instrumentedTransport struct {
	transport Transport
	tr        opentracing.Tracer
	l         *zap.Logger
}

func (i *instrumentedTransport) opName(name string) string {
	return strings.Join([]string{"transport", name}, ".")
}

func (i *instrumentedTransport) start(ctx context.Context, name string, fields ...zap.Field) (context.Context, func(error)) {
	span, ctx := opentracing.StartSpanFromContextWithTracer(ctx, i.tr, i.opName(name))
	for _, f := range fields {
		if f.Type == zapcore.StringType {
			span.SetTag(f.Key, f.String)
		}
	}
	started := time.Now()
	i.l.Debug("start "+name, fields...)
	return ctx, func(err error) {
		if err != nil {
			ext.Error.Set(span, true)
			span.LogFields(otlog.Error(err))
			i.l.Debug("failed "+name, append(fields, zap.Error(err), zap.Duration("elapsed", time.Since(started)))...)
		} else {
			i.l.Debug("end "+name, append(fields, zap.Duration("elapsed", time.Since(started)))...)
		}
		span.Finish()
	}
}

func (i *instrumentedTransport) FetchProfile(ctx context.Context, pid string) (model.ObjectProfile, error) {
	ctx, done := i.start(ctx, "FetchProfile", zap.String("pid", pid))
	p, err := i.transport.FetchProfile(ctx, pid)
	done(err)
	return p, err
}

func (i *instrumentedTransport) ListDatastreams(ctx context.Context, pid string) ([]model.DatastreamEntry, error) {
	ctx, done := i.start(ctx, "ListDatastreams", zap.String("pid", pid))
	l, err := i.transport.ListDatastreams(ctx, pid)
	done(err)
	return l, err
}

func (i *instrumentedTransport) FetchDatastreamInfo(ctx context.Context, pid, dsID string) (model.DatastreamInfo, error) {
	ctx, done := i.start(ctx, "FetchDatastreamInfo", zap.String("pid", pid), zap.String("dsid", dsID))
	d, err := i.transport.FetchDatastreamInfo(ctx, pid, dsID)
	done(err)
	return d, err
}

func (i *instrumentedTransport) FetchDatastreamHistory(ctx context.Context, pid, dsID string) ([]model.DatastreamInfo, error) {
	ctx, done := i.start(ctx, "FetchDatastreamHistory", zap.String("pid", pid), zap.String("dsid", dsID))
	h, err := i.transport.FetchDatastreamHistory(ctx, pid, dsID)
	done(err)
	return h, err
}

func (i *instrumentedTransport) FetchDatastreamContent(ctx context.Context, pid, dsID string, asOf time.Time) (io.ReadCloser, error) {
	ctx, done := i.start(ctx, "FetchDatastreamContent", zap.String("pid", pid), zap.String("dsid", dsID), zap.Time("asOf", asOf))
	r, err := i.transport.FetchDatastreamContent(ctx, pid, dsID, asOf)
	done(err)
	return r, err
}

func (i *instrumentedTransport) MutateObject(ctx context.Context, pid string, fields model.ObjectFields, expected time.Time) (time.Time, error) {
	ctx, done := i.start(ctx, "MutateObject", zap.String("pid", pid), zap.Time("expected", expected))
	ts, err := i.transport.MutateObject(ctx, pid, fields, expected)
	done(err)
	return ts, err
}

func (i *instrumentedTransport) AddDatastream(ctx context.Context, pid, dsID string, source model.ContentSource, params model.DatastreamParams) (model.DatastreamInfo, error) {
	ctx, done := i.start(ctx, "AddDatastream", zap.String("pid", pid), zap.String("dsid", dsID))
	d, err := i.transport.AddDatastream(ctx, pid, dsID, source, params)
	done(err)
	return d, err
}

func (i *instrumentedTransport) ModifyDatastream(ctx context.Context, pid, dsID string, source *model.ContentSource, params model.DatastreamParams, expected time.Time) (model.DatastreamInfo, error) {
	ctx, done := i.start(ctx, "ModifyDatastream", zap.String("pid", pid), zap.String("dsid", dsID), zap.Time("expected", expected))
	d, err := i.transport.ModifyDatastream(ctx, pid, dsID, source, params, expected)
	done(err)
	return d, err
}

func (i *instrumentedTransport) PurgeDatastream(ctx context.Context, pid, dsID string) (bool, error) {
	ctx, done := i.start(ctx, "PurgeDatastream", zap.String("pid", pid), zap.String("dsid", dsID))
	ok, err := i.transport.PurgeDatastream(ctx, pid, dsID)
	done(err)
	return ok, err
}

func (i *instrumentedTransport) IngestDocument(ctx context.Context, doc model.ObjectDocument, logMessage string) (string, error) {
	ctx, done := i.start(ctx, "IngestDocument", zap.String("pid", doc.PID), zap.Int("datastreams", len(doc.Datastreams)))
	pid, err := i.transport.IngestDocument(ctx, doc, logMessage)
	done(err)
	return pid, err
}

func (i *instrumentedTransport) PurgeObject(ctx context.Context, pid string) (bool, error) {
	ctx, done := i.start(ctx, "PurgeObject", zap.String("pid", pid))
	ok, err := i.transport.PurgeObject(ctx, pid)
	done(err)
	return ok, err
}

func (i *instrumentedTransport) Upload(ctx context.Context, content io.Reader) (string, error) {
	ctx, done := i.start(ctx, "Upload")
	ref, err := i.transport.Upload(ctx, content)
	done(err)
	return ref, err
}

func (i *instrumentedTransport) RunGraphQuery(ctx context.Context, query, language string, limit int, format string) (io.ReadCloser, error) {
	ctx, done := i.start(ctx, "RunGraphQuery", zap.String("language", language), zap.String("format", format), zap.Int("limit", limit))
	r, err := i.transport.RunGraphQuery(ctx, query, language, limit, format)
	done(err)
	return r, err
}

func (i *instrumentedTransport) NextIdentifier(ctx context.Context, namespace string, count int) ([]string, error) {
	ctx, done := i.start(ctx, "NextIdentifier", zap.String("namespace", namespace), zap.Int("count", count))
	ids, err := i.transport.NextIdentifier(ctx, namespace, count)
	done(err)
	return ids, err
}
