package math

import (
	m "math"
	"sync"
	"time"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/rand"
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Abs[T constraints.Signed | constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// EaseSine maps [0, 1] onto a sine in-out curve. Values outside are clamped.
func EaseSine(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return 0.5 - 0.5*Cos(t*K_PI)
}

// DirectionToRadian returns the signed angle that rotates from to to.
func DirectionToRadian(from, to Vec2) float32 {
	q1 := Atan2(to.Y, to.X)
	q2 := Atan2(from.Y, from.X)
	ret := q1 - q2
	for ret < -K_PI {
		ret += K_PI_2
	}
	for ret > K_PI {
		ret -= K_PI_2
	}
	return ret
}

func RadianToDirection(angle float32) Vec2 {
	return Vec2{X: Sin(angle), Y: Cos(angle)}
}

func Sin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func Cos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

func Atan2(y, x float32) float32 {
	return float32(m.Atan2(float64(y), float64(x)))
}

func Sqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}

func Floor(x float32) float32 {
	return float32(m.Floor(float64(x)))
}

var (
	randMu sync.Mutex
	rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
)

// Seed resets the package random source. Used by tests and replays.
func Seed(seed uint64) {
	randMu.Lock()
	rng = rand.New(rand.NewSource(seed))
	randMu.Unlock()
}

// RandomInRange returns a float in [min, max).
func RandomInRange(min, max float32) float32 {
	randMu.Lock()
	f := rng.Float32()
	randMu.Unlock()
	return min + f*(max-min)
}

// RandomIndex returns an int in [0, n). n must be positive.
func RandomIndex(n int) int {
	randMu.Lock()
	defer randMu.Unlock()
	return rng.Intn(n)
}
