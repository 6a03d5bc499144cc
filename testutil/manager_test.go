package testutil_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/typedhttp/component"
	"github.com/kbukum/typedhttp/testutil"
)

// fakeComponent counts lifecycle calls and can be told to fail.
type fakeComponent struct {
	name     string
	running  bool
	resets   int
	startErr error
	stopErr  error
	resetErr error
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}

func (f *fakeComponent) Stop(context.Context) error {
	f.running = false
	return f.stopErr
}

func (f *fakeComponent) Health(context.Context) component.Health {
	if f.running {
		return component.Health{Name: f.name, Status: component.StatusHealthy}
	}
	return component.Health{Name: f.name, Status: component.StatusUnhealthy}
}

func (f *fakeComponent) Reset(context.Context) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resets++
	return nil
}

func (f *fakeComponent) Snapshot(context.Context) (any, error) { return f.resets, nil }

func (f *fakeComponent) Restore(_ context.Context, s any) error {
	f.resets = s.(int)
	return nil
}

func TestManager_Lifecycle(t *testing.T) {
	m := testutil.NewManager(context.Background())
	a, b := &fakeComponent{name: "a"}, &fakeComponent{name: "b"}
	if err := m.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := m.Add(b); err != nil {
		t.Fatal(err)
	}
	if err := m.Add(&fakeComponent{name: "a"}); err == nil {
		t.Error("expected duplicate name to be rejected")
	}

	if err := m.StartAll(); err != nil {
		t.Fatal(err)
	}
	if !a.running || !b.running {
		t.Error("expected both components running")
	}
	for _, h := range m.Health() {
		if h.Status != component.StatusHealthy {
			t.Errorf("%s: expected healthy, got %s", h.Name, h.Status)
		}
	}

	if err := m.ResetAll(); err != nil {
		t.Fatal(err)
	}
	if a.resets != 1 || b.resets != 1 {
		t.Errorf("expected one reset each, got %d and %d", a.resets, b.resets)
	}

	if err := m.Cleanup(); err != nil {
		t.Fatal(err)
	}
	if a.running || b.running {
		t.Error("expected both components stopped")
	}
}

func TestManager_GetAndComponents(t *testing.T) {
	m := testutil.NewManager(context.Background())
	_ = m.Add(&fakeComponent{name: "first"})
	_ = m.Add(testutil.NewAPIServer("second"))

	comps := m.Components()
	if len(comps) != 2 || comps[0].Name() != "first" || comps[1].Name() != "second" {
		t.Errorf("unexpected components %v", comps)
	}
	if m.Get("second") == nil {
		t.Error("expected to find second")
	}
	if m.Get("missing") != nil {
		t.Error("expected nil for missing component")
	}
}

func TestManager_StartFailure(t *testing.T) {
	m := testutil.NewManager(context.Background())
	a := &fakeComponent{name: "a"}
	b := &fakeComponent{name: "b", startErr: errors.New("boom")}
	_ = m.Add(a)
	_ = m.Add(b)

	err := m.StartAll()
	if err == nil {
		t.Fatal("expected start error")
	}
	if !a.running {
		t.Error("components before the failure stay started")
	}
	if err := m.StopAll(); err != nil {
		t.Fatal(err)
	}
	if a.running {
		t.Error("expected StopAll to stop a")
	}
}

func TestManager_StopErrorsJoined(t *testing.T) {
	m := testutil.NewManager(context.Background())
	errA, errB := errors.New("a failed"), errors.New("b failed")
	_ = m.Add(&fakeComponent{name: "a", stopErr: errA})
	_ = m.Add(&fakeComponent{name: "b", stopErr: errB})
	if err := m.StartAll(); err != nil {
		t.Fatal(err)
	}

	err := m.StopAll()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("expected both stop errors, got %v", err)
	}
}

func TestManager_ResetFailure(t *testing.T) {
	m := testutil.NewManager(context.Background())
	resetErr := errors.New("reset failed")
	_ = m.Add(&fakeComponent{name: "a", resetErr: resetErr})
	if err := m.ResetAll(); !errors.Is(err, resetErr) {
		t.Errorf("expected reset error, got %v", err)
	}
}

func TestSetup(t *testing.T) {
	f := &fakeComponent{name: "f"}
	cleanup, err := testutil.Setup(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if !f.running {
		t.Error("expected running after Setup")
	}
	if err := cleanup(); err != nil {
		t.Fatal(err)
	}
	if f.running {
		t.Error("expected stopped after cleanup")
	}

	_, err = testutil.Setup(context.Background(), &fakeComponent{name: "bad", startErr: errors.New("no")})
	if err == nil {
		t.Error("expected start error")
	}
}
