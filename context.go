// Copyright 2026 The asdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package asdb

import (
	"io"
	"log/slog"
	"sync/atomic"
)

// Context carries process-wide configuration, currently just the log
// sink, shared by every Database opened with it.  Contexts are
// reference counted: each Database holds a reference for its lifetime,
// and the caller's own reference is released with Unref.
type Context struct {
	logger *slog.Logger
	refs   atomic.Int32
}

// ContextOption configures a Context at construction time.
type ContextOption func(*Context)

// WithLogger directs the library's logging to l.  By default all log
// output is discarded.
func WithLogger(l *slog.Logger) ContextOption {
	return func(ctx *Context) {
		ctx.logger = l
	}
}

// NewContext returns a Context with a reference count of 1.
func NewContext(opts ...ContextOption) *Context {
	ctx := &Context{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	ctx.refs.Store(1)
	return ctx
}

// Logger returns the context's log sink.
func (ctx *Context) Logger() *slog.Logger {
	return ctx.logger
}

// Ref takes an additional reference and returns the same context.
func (ctx *Context) Ref() *Context {
	ctx.refs.Add(1)
	return ctx
}

// Unref releases one reference.  Releasing more references than were
// taken is a caller bug.
func (ctx *Context) Unref() {
	if ctx.refs.Add(-1) < 0 {
		panic("asdb: Context.Unref called on an already-released context")
	}
}
