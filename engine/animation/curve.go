package animation

import (
	"fmt"

	"github.com/spaghettifunk/cubism/engine/math"
	"github.com/spaghettifunk/cubism/engine/resources"
)

type Point struct {
	Time  float32
	Value float32
}

func lerpPoints(p0, p1 Point, t float32) Point {
	return Point{
		Time:  p0.Time + (p1.Time-p0.Time)*t,
		Value: p0.Value + (p1.Value-p0.Value)*t,
	}
}

type SegmentKind int

const (
	SegmentLinear SegmentKind = iota
	SegmentBezier
	SegmentStepped
	SegmentInverseStepped
)

/**
 * @brief A curve segment. Linear and the stepped kinds use Points[0] and
 * Points[1]; bezier uses all four control points.
 */
type Segment struct {
	Kind   SegmentKind
	Points [4]Point
}

func (s Segment) Start() Point {
	return s.Points[0]
}

func (s Segment) End() Point {
	if s.Kind == SegmentBezier {
		return s.Points[3]
	}
	return s.Points[1]
}

// Contains reports whether t lies inside the segment, bounds included.
func (s Segment) Contains(t float32) bool {
	return s.Start().Time <= t && t <= s.End().Time
}

func (s Segment) Evaluate(t float32) float32 {
	switch s.Kind {
	case SegmentLinear:
		p0, p1 := s.Points[0], s.Points[1]
		k := (t - p0.Time) / (p1.Time - p0.Time)
		if k > 0 {
			return p0.Value + (p1.Value-p0.Value)*k
		}
		return p0.Value
	case SegmentBezier:
		p := s.Points
		k := math.Max((t-p[0].Time)/(p[3].Time-p[0].Time), 0)

		p01 := lerpPoints(p[0], p[1], k)
		p12 := lerpPoints(p[1], p[2], k)
		p23 := lerpPoints(p[2], p[3], k)

		p012 := lerpPoints(p01, p12, k)
		p123 := lerpPoints(p12, p23, k)

		return lerpPoints(p012, p123, k).Value
	case SegmentStepped:
		return s.Points[0].Value
	case SegmentInverseStepped:
		return s.Points[1].Value
	}
	return 0
}

// Curve animates a single target id.
type Curve struct {
	Target string
	ID     string
	// Per curve fades. Negative means the motion fade applies.
	FadeInTime  float32
	FadeOutTime float32
	Segments    []Segment
	first       Point
}

/**
 * @brief Parses the flat segment list of a motion curve.
 * @param c The curve as read from the motion file.
 * @returns The parsed curve or an error if the list is malformed.
 */
func ParseCurve(c resources.MotionCurve) (Curve, error) {
	out := Curve{
		Target:      c.Target,
		ID:          c.ID,
		FadeInTime:  resources.FadeTime(c.FadeInTime, -1),
		FadeOutTime: resources.FadeTime(c.FadeOutTime, -1),
	}
	s := c.Segments
	if len(s) < 2 {
		return out, fmt.Errorf("curve %s: %w", c.ID, resources.ErrBadSegments)
	}
	last := Point{Time: s[0], Value: s[1]}
	out.first = last
	for i := 2; i < len(s); {
		kind := SegmentKind(s[i])
		n := resources.SegmentPoints(int(s[i]))
		if n == 0 || i+1+2*n > len(s) {
			return out, fmt.Errorf("curve %s at %d: %w", c.ID, i, resources.ErrBadSegments)
		}
		i++
		seg := Segment{Kind: kind}
		seg.Points[0] = last
		for p := 1; p <= n; p++ {
			seg.Points[p] = Point{Time: s[i], Value: s[i+1]}
			i += 2
		}
		out.Segments = append(out.Segments, seg)
		last = seg.End()
	}
	return out, nil
}

/**
 * @brief Evaluates the curve at t. Times before the first point return the
 * first value, times after the last return the last value.
 */
func (c *Curve) Evaluate(t float32) float32 {
	if len(c.Segments) == 0 || t <= c.first.Time {
		return c.first.Value
	}
	for _, seg := range c.Segments {
		if seg.Contains(t) {
			return seg.Evaluate(t)
		}
	}
	return c.Segments[len(c.Segments)-1].End().Value
}
