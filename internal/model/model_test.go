package model

import (
	"testing"

	"github.com/HazenBabcock/opensdraw/internal/value"
)

func TestNewModelHasMainGroup(t *testing.T) {
	m := New(0)
	if m.Current().Name != "main" {
		t.Fatalf("expected main group, got %s", m.Current().Name)
	}
}

func TestPushPopGroup(t *testing.T) {
	m := New(0)
	g, err := m.PushGroup("wheel")
	if err != nil {
		t.Fatal(err)
	}
	if m.Current() != g {
		t.Fatal("expected wheel to be current")
	}
	m.PopGroup()
	if m.Current().Name != "main" {
		t.Fatal("expected pop to return to main")
	}
}

func TestPopNeverEmptiesMain(t *testing.T) {
	m := New(0)
	m.PopGroup()
	m.PopGroup()
	if m.Current().Name != "main" {
		t.Fatal("main must never be popped")
	}
}

func TestDuplicateGroupNameErrors(t *testing.T) {
	m := New(0)
	if _, err := m.PushGroup("a"); err != nil {
		t.Fatal(err)
	}
	m.PopGroup()
	if _, err := m.PushGroup("a"); err == nil {
		t.Fatal("expected duplicate group name error")
	}
}

func TestAppendPartCapturesMatrixByValue(t *testing.T) {
	m := New(0)
	g := m.Current()
	g.Matrix = value.NewMatrix4FromRowMajor([]float64{
		1, 0, 0, 5,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	m.AppendPart("3001", Color{Index: 4})
	g.Matrix = value.Identity4() // mutate after insertion
	x, _, _ := m.Current().Entries[0].Part.Matrix.Translation()
	if x != 5 {
		t.Fatalf("expected captured translation x=5, got %v", x)
	}
}

func TestStableByStep(t *testing.T) {
	m := New(0)
	m.AppendPart("a", Color{})
	m.AdvanceStep()
	m.AppendPart("b", Color{})
	m.AppendPart("c", Color{})
	entries := m.Current().StableByStep()
	if entries[0].Part.PartID != "a" || entries[1].Part.PartID != "b" || entries[2].Part.PartID != "c" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}
