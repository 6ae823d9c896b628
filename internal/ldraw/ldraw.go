// Package ldraw implements the Model -> LDraw text serializer spec.md
// section 6 describes as a "consumer contract": walk each group's
// entries in step order, emitting one LDraw line per Part/Primitive
// and a comment line per header entry, inserting `0 STEP` markers
// between entries whose step numbers differ.
//
// Grounded on
// original_source/opensdraw/scripts/lcad_to_ldraw.py (the reference
// file-writing driver: `0 FILE <name>` only for multi-group output,
// the "Generated by opensdraw" comment on the first group only, one
// blank line after each group's part block) and
// original_source/opensdraw/lcad_language/interpreter.py's Group
// class (getParts()'s sort-by-step-unless-comments rule, which
// internal/model.Group.StableByStep/HasComments already implement).
package ldraw

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/HazenBabcock/opensdraw/internal/model"
)

// formatNumber mirrors the compact, round-trip-safe number formatting
// an LDraw line needs: no trailing zeros, no unnecessary precision.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatColor(c model.Color) string {
	if c.Direct {
		return fmt.Sprintf("0x2%06X", c.RGB)
	}
	return strconv.Itoa(c.Index)
}

func formatPoint(p [3]float64) string {
	return formatNumber(p[0]) + " " + formatNumber(p[1]) + " " + formatNumber(p[2])
}

// partLine renders spec.md section 6's "standard LDraw line-type 1
// record with its color, 3 translation numbers, and 9 matrix numbers
// derived from its captured 4x4".
func partLine(p *model.Part) string {
	x, y, z := p.Matrix.Translation()
	rot := p.Matrix.Rotation3x3()
	return fmt.Sprintf("1 %s %s %s %s %s", formatColor(p.Color),
		formatPoint([3]float64{x, y, z}),
		formatNumber(rot[0])+" "+formatNumber(rot[1])+" "+formatNumber(rot[2]),
		formatNumber(rot[3])+" "+formatNumber(rot[4])+" "+formatNumber(rot[5]),
		formatNumber(rot[6])+" "+formatNumber(rot[7])+" "+formatNumber(rot[8])) + " " + p.PartID
}

func primitiveLineTypeCode(kind model.PrimitiveKind) int {
	switch kind {
	case model.PrimitiveLine:
		return 2
	case model.PrimitiveTriangle:
		return 3
	case model.PrimitiveQuadrilateral:
		return 4
	default:
		return 2
	}
}

// primitiveLine renders spec.md section 6's line-types 2/3/4: the
// primitive's points are transformed by its captured matrix before
// being written, since unlike a Part (whose matrix is emitted
// directly into the LDraw record) a line/triangle/quad has no
// matrix field of its own in the LDraw format.
func primitiveLine(p *model.Primitive) string {
	code := primitiveLineTypeCode(p.Kind)
	line := fmt.Sprintf("%d %s", code, formatColor(p.Color))
	for _, pt := range p.Points {
		tp := transformPoint(p.Matrix, pt)
		line += " " + formatPoint(tp)
	}
	return line
}

func transformPoint(m interface {
	At(row, col int) float64
}, p [3]float64) [3]float64 {
	var out [3]float64
	for row := 0; row < 3; row++ {
		out[row] = m.At(row, 0)*p[0] + m.At(row, 1)*p[1] + m.At(row, 2)*p[2] + m.At(row, 3)
	}
	return out
}

func writeGroup(w io.Writer, g *model.Group, multiGroup, first bool, sourceBase string) error {
	if multiGroup {
		if _, err := fmt.Fprintf(w, "0 FILE %s\n", g.Name); err != nil {
			return err
		}
	}

	// StableByStep sorts comments ahead of every Part/Primitive (a
	// comment's step() is -1), so the header block is always
	// contiguous at the front; generatedLineWritten tracks whether
	// we've inserted the "Generated by opensdraw" comment yet, right
	// after that header block and before the first physical entry.
	entries := g.StableByStep()
	suppressStep := g.HasComments()
	generatedLineWritten := !first

	emitGeneratedLine := func() error {
		if generatedLineWritten {
			return nil
		}
		generatedLineWritten = true
		_, err := fmt.Fprintf(w, "0 // Generated by opensdraw from %s\n", filepath.Base(sourceBase))
		return err
	}

	lastStep := 0
	haveLastStep := false
	for _, e := range entries {
		switch e.Kind {
		case model.EntryComment:
			if _, err := fmt.Fprintf(w, "0 %s\n", e.Comment.Text); err != nil {
				return err
			}
		case model.EntryPart:
			if err := emitGeneratedLine(); err != nil {
				return err
			}
			if haveLastStep && !suppressStep && e.Part.Step != lastStep {
				if _, err := fmt.Fprintln(w, "0 STEP"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w, partLine(e.Part)); err != nil {
				return err
			}
			lastStep, haveLastStep = e.Part.Step, true
		case model.EntryPrimitive:
			if err := emitGeneratedLine(); err != nil {
				return err
			}
			if haveLastStep && !suppressStep && e.Primitive.Step != lastStep {
				if _, err := fmt.Fprintln(w, "0 STEP"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w, primitiveLine(e.Primitive)); err != nil {
				return err
			}
			lastStep, haveLastStep = e.Primitive.Step, true
		}
	}
	return emitGeneratedLine()
}

// Serialize writes m's groups to w in LDraw text form. sourceFilename
// is used only for the "Generated by opensdraw from ..." comment.
func Serialize(w io.Writer, m *model.Model, sourceFilename string) error {
	groups := m.Groups()
	multiGroup := len(groups) > 1
	for i, g := range groups {
		if err := writeGroup(w, g, multiGroup, i == 0, sourceFilename); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
