package irq

import (
	"kfs/kernel/cpu"
	"testing"
)

func mockCPUFlags(t *testing.T, enabled bool) *bool {
	origFlags, origDisable, origEnable := flagsFn, disableInterruptsFn, enableInterruptsFn
	t.Cleanup(func() {
		flagsFn, disableInterruptsFn, enableInterruptsFn = origFlags, origDisable, origEnable
	})

	state := enabled
	flagsFn = func() uint64 {
		if state {
			return cpu.FlagInterruptEnable | 0x2
		}
		return 0x2
	}
	disableInterruptsFn = func() { state = false }
	enableInterruptsFn = func() { state = true }

	return &state
}

func TestMaskRestore(t *testing.T) {
	specs := []struct {
		enabledBefore bool
	}{
		{true},
		{false},
	}

	for specIndex, spec := range specs {
		state := mockCPUFlags(t, spec.enabledBefore)

		s := Mask()
		if *state {
			t.Errorf("[spec %d] expected interrupts to be disabled after Mask", specIndex)
		}

		Restore(s)
		if *state != spec.enabledBefore {
			t.Errorf("[spec %d] expected Restore to leave interrupts enabled=%t; got %t", specIndex, spec.enabledBefore, *state)
		}
	}
}

func TestWithoutInterruptsNested(t *testing.T) {
	state := mockCPUFlags(t, true)

	var insideOuter, insideInner bool
	WithoutInterrupts(func() {
		insideOuter = *state
		WithoutInterrupts(func() {
			insideInner = *state
		})

		if *state {
			t.Error("expected the inner section not to re-enable interrupts on exit")
		}
	})

	if insideOuter || insideInner {
		t.Fatal("expected interrupts to be masked inside both critical sections")
	}

	if !*state {
		t.Fatal("expected interrupts to be re-enabled after the outer critical section")
	}
}

func TestUseSoftwareMask(t *testing.T) {
	origFlags, origDisable, origEnable := flagsFn, disableInterruptsFn, enableInterruptsFn
	defer func() {
		flagsFn, disableInterruptsFn, enableInterruptsFn = origFlags, origDisable, origEnable
	}()

	UseSoftwareMask()

	s := Mask()
	if !s {
		t.Fatal("expected the software flag to start enabled")
	}

	if inner := Mask(); inner {
		t.Fatal("expected a nested Mask to observe masked interrupts")
	}

	Restore(s)
	if flagsFn()&cpu.FlagInterruptEnable == 0 {
		t.Fatal("expected Restore to set the software interrupt flag")
	}
}
