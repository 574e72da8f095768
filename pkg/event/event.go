// Package event is an in-process publish/subscribe bus for domain events
// such as "order.placed". Listeners are registered at boot; services fire
// events after their transaction commits.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/workerpool"
)

// Handler receives the payload passed to Fire. Payloads are the concrete
// event structs defined by the firing package.
type Handler func(ctx context.Context, payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
	pool     *workerpool.Pool
)

// Listen registers h for name.
func Listen(name string, h Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[name] = append(handlers[name], h)
}

// UsePool routes FireAsync through p. Without a pool FireAsync runs inline.
func UsePool(p *workerpool.Pool) {
	mu.Lock()
	pool = p
	mu.Unlock()
}

func snapshot(name string) ([]Handler, *workerpool.Pool) {
	mu.RLock()
	defer mu.RUnlock()
	return append([]Handler(nil), handlers[name]...), pool
}

// Fire calls every listener of name in registration order.
func Fire(ctx context.Context, name string, payload interface{}) {
	hs, _ := snapshot(name)
	for _, h := range hs {
		call(ctx, name, h, payload)
	}
}

// FireAsync hands each listener to the worker pool. The context is detached
// from the request so listeners outlive it. A saturated pool degrades to
// running the listener inline.
func FireAsync(ctx context.Context, name string, payload interface{}) {
	hs, p := snapshot(name)
	bg := context.WithoutCancel(ctx)
	for _, h := range hs {
		h := h
		if p == nil {
			call(bg, name, h, payload)
			continue
		}
		if err := p.Submit(func() { call(bg, name, h, payload) }); err != nil {
			logger.WithCtx(ctx).Warn("event: pool unavailable, running inline", "event", name, "error", err)
			call(bg, name, h, payload)
		}
	}
}

func call(ctx context.Context, name string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", name, "panic", fmt.Sprint(r))
		}
	}()
	h(ctx, payload)
}

// Flush removes every listener. Tests call it between cases.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
