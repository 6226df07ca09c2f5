package core

import "testing"

func TestProblemInstanceValidate(t *testing.T) {
	m := NewGridMap(3, 3)
	m.SetObstacle(GridCoord{X: 1, Y: 1})

	good := &ProblemInstance{
		Map:    m,
		Starts: []GridCoord{{0, 0}, {2, 0}},
		Goals:  []GridCoord{{2, 2}, {0, 2}},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid instance, got %v", err)
	}

	mismatched := &ProblemInstance{Map: m, Starts: []GridCoord{{0, 0}}, Goals: nil}
	if err := mismatched.Validate(); err == nil {
		t.Fatal("expected error on mismatched starts/goals length")
	}

	obstructedStart := &ProblemInstance{
		Map:    m,
		Starts: []GridCoord{{1, 1}},
		Goals:  []GridCoord{{2, 2}},
	}
	if err := obstructedStart.Validate(); err == nil {
		t.Fatal("expected error when a start sits on an obstacle")
	}

	tooMany := &ProblemInstance{}
	for i := 0; i < MaxAgents+1; i++ {
		tooMany.Starts = append(tooMany.Starts, GridCoord{})
		tooMany.Goals = append(tooMany.Goals, GridCoord{})
	}
	tooMany.Map = NewGridMap(MaxAgents+2, 1)
	if err := tooMany.Validate(); err == nil {
		t.Fatal("expected error when agent count exceeds MaxAgents")
	}
}

func TestHorizonFor(t *testing.T) {
	small := NewGridMap(2, 2)
	if got := HorizonFor(small); got != MaxPathLength {
		t.Errorf("HorizonFor(2x2) = %d, want the MaxPathLength floor %d", got, MaxPathLength)
	}

	big := NewGridMap(100, 100)
	if want := 100 * 100 * 4; HorizonFor(big) != want {
		t.Errorf("HorizonFor(100x100) = %d, want %d", HorizonFor(big), want)
	}
}
