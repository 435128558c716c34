package errors

import (
	"sync"
	"testing"
)

type recordingOutput struct {
	mu       sync.Mutex
	errors   []string
	warnings []string
	infos    []string
	success  []string
}

func (r *recordingOutput) Error(msgs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msgs...)
}

func (r *recordingOutput) Warning(msgs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msgs...)
}

func (r *recordingOutput) Info(msgs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, msgs...)
}

func (r *recordingOutput) Success(msgs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success = append(r.success, msgs...)
}

func TestCLIHandlerDelegates(t *testing.T) {
	out := &recordingOutput{}
	h := NewCLIHandler(out)

	h.Error("boom")
	h.Warning("careful")
	h.Info("fyi")
	h.Success("done")

	if len(out.errors) != 1 || out.errors[0] != "boom" {
		t.Errorf("unexpected errors: %v", out.errors)
	}
	if len(out.warnings) != 1 || len(out.infos) != 1 || len(out.success) != 1 {
		t.Errorf("expected one message per channel: %+v", out)
	}
}

func TestCLIHandlerConcurrentErrors(t *testing.T) {
	out := &recordingOutput{}
	h := NewCLIHandler(out)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Error("boom")
		}()
	}
	wg.Wait()

	if len(out.errors) != 10 {
		t.Errorf("expected 10 errors, got %d", len(out.errors))
	}
}
