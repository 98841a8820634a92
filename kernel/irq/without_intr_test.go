package irq

import "testing"

func TestWithoutInterruptsTogglesAroundFn(t *testing.T) {
	origDisable, origEnable := disableInterruptsFn, enableInterruptsFn
	defer func() { disableInterruptsFn, enableInterruptsFn = origDisable, origEnable }()

	var order []string
	disableInterruptsFn = func() { order = append(order, "disable") }
	enableInterruptsFn = func() { order = append(order, "enable") }

	WithoutInterrupts(func() { order = append(order, "fn") })

	want := []string{"disable", "fn", "enable"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestWithoutInterruptsReEnablesOnPanic(t *testing.T) {
	origDisable, origEnable := disableInterruptsFn, enableInterruptsFn
	defer func() { disableInterruptsFn, enableInterruptsFn = origDisable, origEnable }()

	enabled := false
	disableInterruptsFn = func() {}
	enableInterruptsFn = func() { enabled = true }

	func() {
		defer func() { recover() }()
		WithoutInterrupts(func() { panic("boom") })
	}()

	if !enabled {
		t.Fatal("expected interrupts to be re-enabled even after a panic")
	}
}
