package hubcheck

import (
	"context"
	"sync"
)

// FakeChecker returns canned results per hub url and success for any other.
type FakeChecker struct {
	mu      sync.Mutex
	Results map[string]*Result
	Err     error
	Checked []string
}

func NewFakeChecker() *FakeChecker {
	return &FakeChecker{Results: map[string]*Result{}}
}

func (f *FakeChecker) Check(_ context.Context, hubURL string) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Checked = append(f.Checked, hubURL)
	if f.Err != nil {
		return nil, f.Err
	}
	if r, ok := f.Results[hubURL]; ok {
		return r, nil
	}
	return &Result{Status: StatusSuccess, Message: successMessage}, nil
}
