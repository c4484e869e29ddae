package buffer

import (
	"testing"
)

func TestRingBuffer(t *testing.T) {
	t.Run("size=1", func(t *testing.T) {
		rb := RingN[byte](1)
		rb.Add(1)
		rb.Add(2)
		rb.Add(3)

		if rb.Len() != 1 {
			t.Errorf("len=%d", rb.Len())
		}
		got := rb.Bytes()
		if len(got) != 1 || got[0] != 3 {
			t.Errorf("got=%v", got)
		}
	})

	t.Run("size=3", func(t *testing.T) {
		rb := RingN[byte](3)
		rb.Add(1)
		rb.Add(2)
		rb.Add(3)

		if rb.Len() != 3 {
			t.Errorf("len=%d", rb.Len())
		}
		got := rb.Bytes()
		want := []byte{1, 2, 3}
		if len(got) != len(want) {
			t.Fatalf("got=%v, want=%v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("got=%v, want=%v", got, want)
			}
		}
	})

	t.Run("wraps and overwrites oldest", func(t *testing.T) {
		rb := RingN[byte](7)
		for i := range 100 {
			rb.Add(byte(i))
		}

		if rb.Len() != 7 {
			t.Errorf("len=%d", rb.Len())
		}
		got := rb.Bytes()
		want := []byte{93, 94, 95, 96, 97, 98, 99}
		if len(got) != len(want) {
			t.Fatalf("got=%v, want=%v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("got=%v, want=%v", got, want)
			}
		}
	})

	t.Run("reset clears buffered data", func(t *testing.T) {
		rb := RingN[string](4)
		rb.Add("a")
		rb.Add("b")
		rb.Reset()

		if rb.Len() != 0 {
			t.Errorf("len=%d after Reset, want 0", rb.Len())
		}
		rb.Add("c")
		got := rb.Bytes()
		if len(got) != 1 || got[0] != "c" {
			t.Errorf("got=%v, want [c]", got)
		}
	})
}
