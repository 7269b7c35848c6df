package transport_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/jonathangreen/tuque-sub001/pkg/transport"
	"github.com/jonathangreen/tuque-sub001/pkg/transport/mocktransport"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInstrument(t *testing.T) {
	mock := &mocktransport.TransportMock{
		FetchProfileFunc: func(_ context.Context, pid string) (model.ObjectProfile, error) {
			return model.ObjectProfile{PID: pid, State: model.StateActive}, nil
		},
		PurgeObjectFunc: func(_ context.Context, _ string) (bool, error) {
			return false, status.ErrNotFound
		},
		MutateObjectFunc: func(_ context.Context, _ string, _ model.ObjectFields, _ time.Time) (time.Time, error) {
			return time.Unix(10, 0), nil
		},
	}
	tracer := mocktracer.New()
	core, logs := observer.New(zap.DebugLevel)
	tpt := transport.Instrument(tracer, zap.New(core), mock)

	ctx := context.Background()
	p, err := tpt.FetchProfile(ctx, "test:1")
	require.NoError(t, err)
	assert.Equal(t, "test:1", p.PID)

	ok, err := tpt.PurgeObject(ctx, "test:2")
	assert.False(t, ok)
	assert.ErrorIs(t, err, status.ErrNotFound)

	ts, err := tpt.MutateObject(ctx, "test:1", model.ObjectFields{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Unix(10, 0), ts)

	require.Len(t, mock.FetchProfileCalls(), 1)
	assert.Equal(t, "test:1", mock.FetchProfileCalls()[0].Pid)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, "transport.FetchProfile", spans[0].OperationName)
	assert.Equal(t, "test:1", spans[0].Tag("pid"))
	assert.Nil(t, spans[0].Tag("error"))
	assert.Equal(t, "transport.PurgeObject", spans[1].OperationName)
	assert.Equal(t, true, spans[1].Tag("error"))

	assert.Equal(t, 1, logs.FilterMessage("failed PurgeObject").Len())
	assert.Equal(t, 1, logs.FilterMessage("end FetchProfile").Len())
}

func TestInstrumentDefaults(t *testing.T) {
	mock := &mocktransport.TransportMock{
		NextIdentifierFunc: func(_ context.Context, ns string, count int) ([]string, error) {
			return []string{ns + ":1"}, nil
		},
	}
	tpt := transport.Instrument(nil, nil, mock)
	ids, err := tpt.NextIdentifier(context.Background(), "test", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"test:1"}, ids)
}
