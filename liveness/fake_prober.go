package liveness

import (
	"context"
	"sync"
)

// FakeProber answers from a fixed table, urls not in the table are OK.
type FakeProber struct {
	m       sync.Mutex
	Results map[string]ProbeResult
	Probed  []string
}

func NewFakeProber(results map[string]ProbeResult) *FakeProber {
	if results == nil {
		results = map[string]ProbeResult{}
	}
	return &FakeProber{Results: results}
}

func (p *FakeProber) Probe(_ context.Context, rawURL string) ProbeResult {
	p.m.Lock()
	defer p.m.Unlock()
	p.Probed = append(p.Probed, rawURL)
	if r, ok := p.Results[rawURL]; ok {
		return r
	}
	return ProbeResult{Code: 200}
}
