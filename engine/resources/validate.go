package resources

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	ErrMissingFile   = errors.New("referenced file does not exist")
	ErrMetaMismatch  = errors.New("meta counts do not match the file contents")
	ErrBadSegments   = errors.New("malformed curve segments")
	ErrInvalidTarget = errors.New("invalid group target")
)

// Segment types inside a motion curve.
const (
	SegmentLinear         = 0
	SegmentBezier         = 1
	SegmentStepped        = 2
	SegmentInverseStepped = 3
)

// SegmentPoints returns how many points a segment type consumes, or 0 for
// unknown types.
func SegmentPoints(kind int) int {
	switch kind {
	case SegmentLinear, SegmentStepped, SegmentInverseStepped:
		return 1
	case SegmentBezier:
		return 3
	default:
		return 0
	}
}

// CountSegments walks a flat segment list and returns the number of segments
// and points it holds.
func CountSegments(segments []float32) (nsegments, npoints int, err error) {
	if len(segments) < 2 {
		return 0, 0, ErrBadSegments
	}
	npoints = 1
	for i := 2; i < len(segments); {
		n := SegmentPoints(int(segments[i]))
		if n == 0 {
			return 0, 0, fmt.Errorf("%w: unknown segment type %v", ErrBadSegments, segments[i])
		}
		i++
		if i+2*n > len(segments) {
			return 0, 0, fmt.Errorf("%w: truncated segment", ErrBadSegments)
		}
		i += 2 * n
		nsegments++
		npoints += n
	}
	return nsegments, npoints, nil
}

// Check compares the meta block with the curve data.
func (m *Motion3) Check() error {
	var segs, points int
	for i, c := range m.Curves {
		s, p, err := CountSegments(c.Segments)
		if err != nil {
			return fmt.Errorf("curve %d (%s): %w", i, c.ID, err)
		}
		segs += s
		points += p
	}
	switch {
	case m.Meta.CurveCount != len(m.Curves):
		return fmt.Errorf("%w: CurveCount %d, found %d", ErrMetaMismatch, m.Meta.CurveCount, len(m.Curves))
	case m.Meta.TotalSegmentCount != segs:
		return fmt.Errorf("%w: TotalSegmentCount %d, found %d", ErrMetaMismatch, m.Meta.TotalSegmentCount, segs)
	case m.Meta.TotalPointCount != points:
		return fmt.Errorf("%w: TotalPointCount %d, found %d", ErrMetaMismatch, m.Meta.TotalPointCount, points)
	case m.Meta.UserDataCount != len(m.UserData):
		return fmt.Errorf("%w: UserDataCount %d, found %d", ErrMetaMismatch, m.Meta.UserDataCount, len(m.UserData))
	}
	return nil
}

// Validate checks that every file referenced by m exists below base and that
// the referenced json files parse and agree with their meta blocks. It does
// not stop at the first problem.
func Validate(base string, m *Model3) []error {
	var errs []error
	exists := func(kind, file string) bool {
		if file == "" {
			return false
		}
		p := Resolve(base, file)
		if _, err := os.Stat(p); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", kind, file, ErrMissingFile))
			return false
		}
		return true
	}

	refs := m.FileReferences
	if refs.Moc == "" {
		errs = append(errs, fmt.Errorf("moc: %w", ErrMissingFile))
	} else {
		exists("moc", refs.Moc)
	}
	for _, t := range refs.Textures {
		exists("texture", t)
	}
	for _, e := range refs.Expressions {
		if exists("expression", e.File) {
			if _, err := LoadExpression3(Resolve(base, e.File)); err != nil {
				errs = append(errs, err)
			}
		}
	}
	for _, group := range m.MotionGroups() {
		for i, ref := range refs.Motions[group] {
			if !exists("motion", ref.File) {
				continue
			}
			mo, err := LoadMotion3(Resolve(base, ref.File))
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if err := mo.Check(); err != nil {
				errs = append(errs, fmt.Errorf("motion %s[%d] %s: %w", group, i, filepath.Base(ref.File), err))
			}
			if ref.Sound != "" {
				exists("sound", ref.Sound)
			}
		}
	}
	if exists("physics", refs.Physics) {
		if p, err := LoadPhysics3(Resolve(base, refs.Physics)); err != nil {
			errs = append(errs, err)
		} else if p.Meta.PhysicsSettingCount != len(p.PhysicsSettings) {
			errs = append(errs, fmt.Errorf("physics: %w: PhysicsSettingCount %d, found %d",
				ErrMetaMismatch, p.Meta.PhysicsSettingCount, len(p.PhysicsSettings)))
		}
	}
	if exists("pose", refs.Pose) {
		if _, err := LoadPose3(Resolve(base, refs.Pose)); err != nil {
			errs = append(errs, err)
		}
	}
	if exists("display info", refs.DisplayInfo) {
		if _, err := LoadCdi3(Resolve(base, refs.DisplayInfo)); err != nil {
			errs = append(errs, err)
		}
	}
	if exists("user data", refs.UserData) {
		if _, err := LoadUserData3(Resolve(base, refs.UserData)); err != nil {
			errs = append(errs, err)
		}
	}
	for _, g := range m.Groups {
		if g.Target != GroupTargetParameter && g.Target != GroupTargetPart {
			errs = append(errs, fmt.Errorf("group %s: %w %q", g.Name, ErrInvalidTarget, g.Target))
		}
	}
	return errs
}
