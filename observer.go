package relq

import (
	"context"
	"time"
)

// QueryEvent describes one builder invocation.
type QueryEvent struct {
	// ID identifies the invocation; Before and After receive the same ID.
	ID string
	// Builder is the builder kind, e.g. "create" or "find_many".
	Builder string
	// Entity is the name of the entity the builder targets.
	Entity string
	// Tx reports whether the invocation ran on a transaction handle.
	Tx bool
}

// QueryResult describes the outcome of one builder invocation.
type QueryResult struct {
	// Rows is the number of records returned or affected.
	Rows int
	// Err is the error returned to the caller, if any.
	Err     error
	Elapsed time.Duration
}

// Observer receives a call before and after every builder invocation.
// Before may return a derived context (e.g. carrying a span); the builder
// runs with that context and passes it to After.
type Observer interface {
	Before(ctx context.Context, e QueryEvent) context.Context
	After(ctx context.Context, e QueryEvent, r QueryResult)
}

// Observers fans events out to several observers in order.
type Observers []Observer

// Before calls Before on every observer, threading the context through.
func (os Observers) Before(ctx context.Context, e QueryEvent) context.Context {
	for _, o := range os {
		ctx = o.Before(ctx, e)
	}
	return ctx
}

// After calls After on every observer in reverse order, so that the first
// observer is the outermost.
func (os Observers) After(ctx context.Context, e QueryEvent, r QueryResult) {
	for i := len(os) - 1; i >= 0; i-- {
		os[i].After(ctx, e, r)
	}
}

// ObserverFuncs adapts a pair of functions to an Observer. Nil functions
// are skipped.
type ObserverFuncs struct {
	BeforeFunc func(context.Context, QueryEvent) context.Context
	AfterFunc  func(context.Context, QueryEvent, QueryResult)
}

// Before calls f.BeforeFunc.
func (f ObserverFuncs) Before(ctx context.Context, e QueryEvent) context.Context {
	if f.BeforeFunc == nil {
		return ctx
	}
	return f.BeforeFunc(ctx, e)
}

// After calls f.AfterFunc.
func (f ObserverFuncs) After(ctx context.Context, e QueryEvent, r QueryResult) {
	if f.AfterFunc != nil {
		f.AfterFunc(ctx, e, r)
	}
}
