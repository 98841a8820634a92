package irq

import "testing"

func TestInterruptMgrDispatchCallsHandler(t *testing.T) {
	m := NewInterruptMgr()
	called := false
	m.HandleException(DoubleFault, func(f *Frame, r *Regs) bool {
		called = true
		return true
	})

	if !m.Dispatch(uint8(DoubleFault), &Frame{}, &Regs{}) {
		t.Fatal("expected Dispatch to report the condition solved")
	}
	if !called {
		t.Fatal("expected the registered handler to run")
	}
}

func TestInterruptMgrDispatchUnregisteredIsUnsolved(t *testing.T) {
	m := NewInterruptMgr()
	if m.Dispatch(200, &Frame{}, &Regs{}) {
		t.Fatal("expected an unregistered vector to report unsolved")
	}

	stats := m.Stats(200)
	if stats.Handled() != 1 || stats.Unsolved() != 1 {
		t.Fatalf("stats = %+v, want Handled=1 Unsolved=1", stats)
	}
}

func TestInterruptMgrHandleExceptionReturnsPrevious(t *testing.T) {
	m := NewInterruptMgr()
	first := func(f *Frame, r *Regs) bool { return true }
	second := func(f *Frame, r *Regs) bool { return true }

	if prev := m.HandleException(GPFException, first); prev != nil {
		t.Fatal("expected no previous handler on first registration")
	}
	prev := m.HandleException(GPFException, second)
	if prev == nil {
		t.Fatal("expected the first handler to be returned as previous")
	}
}

func TestInterruptMgrDispatchWithCode(t *testing.T) {
	m := NewInterruptMgr()
	var gotCode uint64
	m.HandleExceptionWithCode(PageFaultException, func(code uint64, f *Frame, r *Regs) bool {
		gotCode = code
		return true
	})

	if !m.Dispatch(uint8(PageFaultException), &Frame{}, &Regs{}) {
		t.Fatal("expected Dispatch to route to the code-carrying handler")
	}
	_ = gotCode
}

func TestInterruptMgrStatsAccumulate(t *testing.T) {
	m := NewInterruptMgr()
	solved := true
	m.HandleException(DivideError, func(f *Frame, r *Regs) bool { return solved })

	m.Dispatch(uint8(DivideError), &Frame{}, &Regs{})
	solved = false
	m.Dispatch(uint8(DivideError), &Frame{}, &Regs{})

	stats := m.Stats(uint8(DivideError))
	if stats.Handled() != 2 {
		t.Fatalf("Handled() = %d, want 2", stats.Handled())
	}
	if stats.Unsolved() != 1 {
		t.Fatalf("Unsolved() = %d, want 1", stats.Unsolved())
	}
}
