package model

import "testing"

// TestWatermarkAllows tests the lower-bound predicate.
func TestWatermarkAllows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		w    Watermark
		v    int64
		want bool
	}{
		{"unset allows everything", Watermark{}, -100, true},
		{"unset allows zero", Watermark{}, 0, true},
		{"set allows equal", Watermark{Value: 5, Set: true}, 5, true},
		{"set allows greater", Watermark{Value: 5, Set: true}, 6, true},
		{"set rejects lesser", Watermark{Value: 5, Set: true}, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.w.Allows(tt.v); got != tt.want {
				t.Errorf("Allows(%d) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

// TestWatermarkTighten tests monotone tightening.
func TestWatermarkTighten(t *testing.T) {
	t.Parallel()

	t.Run("unset takes the first value", func(t *testing.T) {
		t.Parallel()

		w := Watermark{}.Tighten(7)
		if !w.Set || w.Value != 7 {
			t.Errorf("got %+v, want {Value:7 Set:true}", w)
		}
	})

	t.Run("folds to the minimum", func(t *testing.T) {
		t.Parallel()

		w := Watermark{}
		for _, v := range []int64{9, 3, 5} {
			w = w.Tighten(v)
		}
		if w.Value != 3 {
			t.Errorf("got %d, want 3", w.Value)
		}
	})

	t.Run("never decreases across filtered runs", func(t *testing.T) {
		t.Parallel()

		// After a run, every surviving candidate passed the previous
		// bound, so folding them in cannot lower it.
		w := Watermark{Value: 10, Set: true}
		for _, v := range []int64{10, 25, 40} {
			w = w.Tighten(v)
		}
		if w.Value < 10 {
			t.Errorf("watermark decreased to %d", w.Value)
		}
	})
}

// TestWatermarks tests the paired count/access cache.
func TestWatermarks(t *testing.T) {
	t.Parallel()

	t.Run("allows requires both bounds", func(t *testing.T) {
		t.Parallel()

		w := Watermarks{
			MinCount:  Watermark{Value: 3, Set: true},
			MinAccess: Watermark{Value: 100, Set: true},
		}
		if w.Allows(2, 200) {
			t.Error("expected count below bound to be rejected")
		}
		if w.Allows(5, 50) {
			t.Error("expected access below bound to be rejected")
		}
		if !w.Allows(3, 100) {
			t.Error("expected values at the bounds to be allowed")
		}
	})

	t.Run("zero value allows everything", func(t *testing.T) {
		t.Parallel()

		var w Watermarks
		if !w.Allows(0, 0) {
			t.Error("expected unset watermarks to allow all records")
		}
	})

	t.Run("tighten updates both bounds", func(t *testing.T) {
		t.Parallel()

		var w Watermarks
		w = w.Tighten(4, 400)
		w = w.Tighten(9, 900)
		if w.MinCount.Value != 4 || w.MinAccess.Value != 400 {
			t.Errorf("got %+v", w)
		}
	})
}
