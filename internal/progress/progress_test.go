package progress

import "testing"

func TestBarAddDoesNotPanic(t *testing.T) {
	bar := NewBar(10, "testing")
	bar.Add(3)
	bar.Add(7)
	bar.Done()
}

func TestSpinnerStartStopDoesNotPanic(t *testing.T) {
	s := NewSpinner("working")
	s.Start()
	s.Stop()
}
