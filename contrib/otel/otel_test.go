package otel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/syssam/relq"
	relqotel "github.com/syssam/relq/contrib/otel"
)

func TestObserver(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	o := relqotel.Observer(tp.Tracer("test"))

	e := relq.QueryEvent{ID: "op-1", Builder: "create", Entity: "User"}
	ctx := o.Before(context.Background(), e)
	o.After(ctx, e, relq.QueryResult{Rows: 1})

	e = relq.QueryEvent{ID: "op-2", Builder: "update", Entity: "User", Tx: true}
	ctx = o.Before(context.Background(), e)
	o.After(ctx, e, relq.QueryResult{Err: relq.NewNotFoundError("User")})

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "relq.create", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("relq.entity", "User"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("relq.rows", 1))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, "relq.update", spans[1].Name())
	assert.Contains(t, spans[1].Attributes(), attribute.Bool("relq.tx", true))
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}

func TestObserverNested(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tracer := tp.Tracer("test")
	o := relqotel.Observer(tracer)

	ctx, parent := tracer.Start(context.Background(), "request")
	e := relq.QueryEvent{ID: "op-1", Builder: "find_many", Entity: "Post"}
	o.After(o.Before(ctx, e), e, relq.QueryResult{Err: errors.New("boom")})
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, parent.SpanContext().SpanID(), spans[0].Parent().SpanID())
}
