package service

import (
	"context"
	"sync"

	"design-o-pedia-go/pkg/events"
)

type fakeEngine struct {
	text  string
	err   error
	calls [][]byte
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) ExtractText(_ context.Context, image []byte) (string, error) {
	f.calls = append(f.calls, image)
	return f.text, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.UsageEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.UsageEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
