package schedule

import (
	"testing"
	"time"
)

func TestHoldWindow_ExpandsByMargin(t *testing.T) {
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC)

	holdStart, holdEnd := HoldWindow(start, end, 6)

	if want := time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC); !holdStart.Equal(want) {
		t.Fatalf("holdStart = %s, want %s", holdStart.Format(time.RFC3339), want.Format(time.RFC3339))
	}
	if want := time.Date(2024, 1, 17, 15, 0, 0, 0, time.UTC); !holdEnd.Equal(want) {
		t.Fatalf("holdEnd = %s, want %s", holdEnd.Format(time.RFC3339), want.Format(time.RFC3339))
	}
}

func TestHoldWindow_ZeroMarginIsIdentity(t *testing.T) {
	start := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 2, 0, 0, 0, time.UTC)

	holdStart, holdEnd := HoldWindow(start, end, 0)

	if !holdStart.Equal(start) || !holdEnd.Equal(end) {
		t.Fatalf("zero margin changed the window: [%s, %s]",
			holdStart.Format(time.RFC3339), holdEnd.Format(time.RFC3339))
	}
}

func TestHoldWindow_FractionalMargin(t *testing.T) {
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	holdStart, holdEnd := HoldWindow(start, end, 1.5)

	if want := start.Add(-90 * time.Minute); !holdStart.Equal(want) {
		t.Fatalf("holdStart = %s, want %s", holdStart, want)
	}
	if want := end.Add(90 * time.Minute); !holdEnd.Equal(want) {
		t.Fatalf("holdEnd = %s, want %s", holdEnd, want)
	}
}
