package ldraw

import (
	"strings"
	"testing"

	"github.com/HazenBabcock/opensdraw/internal/model"
)

func TestSerializeSinglePartSinglePartGroup(t *testing.T) {
	m := model.New(0)
	m.AppendPart("3001", model.Color{Index: 4})

	var sb strings.Builder
	if err := Serialize(&sb, m, "model.lcad"); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if strings.Contains(out, "0 FILE") {
		t.Fatal("single-group output must not contain an 0 FILE line")
	}
	if !strings.Contains(out, "1 4 0 0 0 1 0 0 0 1 0 0 0 1 3001") {
		t.Fatalf("expected a line-type 1 record for part 3001, got:\n%s", out)
	}
	if !strings.Contains(out, "Generated by opensdraw from model.lcad") {
		t.Fatalf("expected a generated-by comment, got:\n%s", out)
	}
}

func TestSerializeDirectColor(t *testing.T) {
	m := model.New(0)
	m.AppendPart("3001", model.Color{Direct: true, RGB: 0xAABBCC})

	var sb strings.Builder
	if err := Serialize(&sb, m, "model.lcad"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "0x2AABBCC") {
		t.Fatalf("expected a direct-color token, got:\n%s", sb.String())
	}
}

func TestSerializeMultiGroupAddsFileLines(t *testing.T) {
	m := model.New(0)
	m.AppendPart("3001", model.Color{Index: 4})
	if _, err := m.PushGroup("sub"); err != nil {
		t.Fatal(err)
	}
	m.AppendPart("3002", model.Color{Index: 2})
	m.PopGroup()

	var sb strings.Builder
	if err := Serialize(&sb, m, "model.lcad"); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.Contains(out, "0 FILE main") || !strings.Contains(out, "0 FILE sub") {
		t.Fatalf("expected 0 FILE lines for both groups, got:\n%s", out)
	}
}

func TestSerializeInsertsStepBetweenDifferingSteps(t *testing.T) {
	m := model.New(0)
	m.AppendPart("3001", model.Color{Index: 4})
	m.AdvanceStep()
	m.AppendPart("3002", model.Color{Index: 4})

	var sb strings.Builder
	if err := Serialize(&sb, m, "model.lcad"); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.Contains(out, "0 STEP") {
		t.Fatalf("expected a 0 STEP line between differing steps, got:\n%s", out)
	}
}

func TestSerializeSuppressesStepWhenGroupHasComments(t *testing.T) {
	m := model.New(0)
	m.AppendComment("this model has manual headers")
	m.AppendPart("3001", model.Color{Index: 4})
	m.AdvanceStep()
	m.AppendPart("3002", model.Color{Index: 4})

	var sb strings.Builder
	if err := Serialize(&sb, m, "model.lcad"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(sb.String(), "0 STEP") {
		t.Fatalf("expected no 0 STEP lines when the group has comments, got:\n%s", sb.String())
	}
}

func TestSerializePrimitiveLineTypes(t *testing.T) {
	m := model.New(0)
	m.AppendPrimitive(model.PrimitiveLine, [][3]float64{{0, 0, 0}, {1, 0, 0}}, model.Color{Index: 0})
	m.AppendPrimitive(model.PrimitiveTriangle, [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, model.Color{Index: 0})
	m.AppendPrimitive(model.PrimitiveQuadrilateral, [][3]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}, model.Color{Index: 0})

	var sb strings.Builder
	if err := Serialize(&sb, m, "model.lcad"); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, prefix := range []string{"2 0 ", "3 0 ", "4 0 "} {
		if !strings.Contains(out, prefix) {
			t.Fatalf("expected a line starting %q, got:\n%s", prefix, out)
		}
	}
}
