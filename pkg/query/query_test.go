package query

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/jonathangreen/tuque-sub001/pkg/transport"
	"github.com/jonathangreen/tuque-sub001/pkg/transport/mocktransport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	zeroRows = `<?xml version="1.0" encoding="UTF-8"?>
<sparql xmlns="http://www.w3.org/2001/sw/DataAccess/rf1/result">
  <head>
    <variable name="pid"/>
  </head>
  <results>
  </results>
</sparql>`

	twoRows = `<?xml version="1.0" encoding="UTF-8"?>
<sparql xmlns="http://www.w3.org/2001/sw/DataAccess/rf1/result">
  <head>
    <variable name="pid"/>
    <variable name="label"/>
  </head>
  <results>
    <result>
      <pid uri="info:fedora/test:1"/>
      <label>First &amp; foremost</label>
    </result>
    <result>
      <label>second</label>
      <pid uri="http://example.org/other"/>
      <empty></empty>
    </result>
  </results>
</sparql>`
)

func TestParse(t *testing.T) {
	rows, err := Parse(strings.NewReader(zeroRows))
	require.NoError(t, err)
	require.NotNil(t, rows)
	assert.Empty(t, rows)

	rows, err = Parse(strings.NewReader(`<sparql><results/></sparql>`))
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = Parse(strings.NewReader(twoRows))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"pid", "label"}, rows[0].Names())
	pid, ok := rows[0].Get("pid")
	require.True(t, ok)
	assert.Equal(t, model.ValueURI, pid.Type)
	assert.Equal(t, "info:fedora/test:1", pid.URI)
	assert.Equal(t, "test:1", pid.Identifier)
	label, _ := rows[0].Get("label")
	assert.Equal(t, model.Value{Type: model.ValueLiteral, Literal: "First & foremost"}, label)

	assert.Equal(t, []string{"label", "pid", "empty"}, rows[1].Names())
	pid, _ = rows[1].Get("pid")
	assert.Equal(t, "http://example.org/other", pid.URI)
	assert.Empty(t, pid.Identifier)
	empty, _ := rows[1].Get("empty")
	assert.Equal(t, model.ValueLiteral, empty.Type)
	assert.Empty(t, empty.Literal)
}

func TestParseMalformed(t *testing.T) {
	for _, toPin := range []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: ""},
		{name: "wrong root", doc: `<html><body/></html>`},
		{name: "truncated", doc: `<sparql><results><result><pid uri="info:fedora/a:1"/>`},
		{name: "not xml", doc: `{"results": []}`},
		{name: "nested literal", doc: `<sparql><results><result><a><b/></a></result></results></sparql>`},
		{name: "mismatched", doc: `<sparql><results></result></sparql>`},
	} {
		fixture := toPin
		t.Run(fixture.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(fixture.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, status.ErrMalformedQueryResult)
		})
	}
}

func TestDecoderStreams(t *testing.T) {
	dec := NewDecoder(strings.NewReader(twoRows))
	first, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, first.Len())
	_, err = dec.Next()
	require.NoError(t, err)
	_, err = dec.Next()
	assert.Equal(t, io.EOF, err)
	_, err = dec.Next()
	assert.Equal(t, io.EOF, err)
}

func TestParseCount(t *testing.T) {
	n, err := ParseCount(strings.NewReader(" 42\n"))
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = ParseCount(strings.NewReader("<sparql/>"))
	assert.ErrorIs(t, err, status.ErrMalformedQueryResult)
	_, err = ParseCount(strings.NewReader("-1"))
	assert.ErrorIs(t, err, status.ErrMalformedQueryResult)
	_, err = ParseCount(strings.NewReader(" \n\t"))
	assert.ErrorIs(t, err, status.ErrMalformedQueryResult)

	t.Run("leading whitespace is not bounded", func(t *testing.T) {
		padded := strings.Repeat(" ", 100) + strings.Repeat("\n", 100) + "1234\n"
		n, err := ParseCount(strings.NewReader(padded))
		require.NoError(t, err)
		assert.Equal(t, 1234, n)
	})
}

func TestExecutor(t *testing.T) {
	mock := &mocktransport.TransportMock{
		RunGraphQueryFunc: func(_ context.Context, _ string, _ string, _ int, format string) (io.ReadCloser, error) {
			if format == transport.FormatCount {
				return io.NopCloser(strings.NewReader("7")), nil
			}
			return io.NopCloser(strings.NewReader(twoRows)), nil
		},
	}
	e := NewExecutor(mock)
	ctx := context.Background()

	rows, err := e.Query(ctx, "SELECT ?pid ?label WHERE {}", "", 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	n, err := e.Count(ctx, "SELECT ?pid WHERE {}", transport.LanguageItql)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	calls := mock.RunGraphQueryCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, transport.LanguageSparql, calls[0].Language)
	assert.Equal(t, transport.FormatSparql, calls[0].Format)
	assert.Equal(t, 10, calls[0].Limit)
	assert.Equal(t, transport.LanguageItql, calls[1].Language)
	assert.Equal(t, transport.FormatCount, calls[1].Format)

	stop := errors.New("stop")
	var seen int
	err = e.Stream(ctx, "SELECT", "", 0, func(model.Binding) error {
		seen++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, seen)
}

func TestExecutorTransportError(t *testing.T) {
	failure := status.NewTransportError("RunGraphQuery", 500, errors.New("boom"))
	mock := &mocktransport.TransportMock{
		RunGraphQueryFunc: func(context.Context, string, string, int, string) (io.ReadCloser, error) {
			return nil, failure
		},
	}
	e := NewExecutor(mock)
	_, err := e.Query(context.Background(), "SELECT", "", 0)
	assert.ErrorIs(t, err, status.ErrTransportFailure)
	_, err = e.Count(context.Background(), "SELECT", "")
	assert.ErrorIs(t, err, status.ErrTransportFailure)
}
