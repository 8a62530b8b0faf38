package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()

	done := tm.Phase("load")
	done("3 files")
	done = tm.Phase("apply")
	done("")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("len(Phases) = %d, want 2", len(rep.Phases))
	}
	if rep.Phases[0].Name != "load" || rep.Phases[0].Note != "3 files" {
		t.Errorf("first phase = %+v", rep.Phases[0])
	}
	if rep.Phases[1].Name != "apply" {
		t.Errorf("second phase = %+v", rep.Phases[1])
	}

	sum := tm.Summary()
	for _, want := range []string{"timings:", "load", "3 files", "apply", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("Summary() missing %q:\n%s", want, sum)
		}
	}
}

func TestTimerEmpty(t *testing.T) {
	rep := NewTimer().Report()
	if len(rep.Phases) != 0 || rep.TotalMS != 0 {
		t.Errorf("Report() = %+v, want empty", rep)
	}
}
