package cubism

// ConstantFlags are the per drawable flags that never change after the moc
// is revived. The layout matches csmFlags.
type ConstantFlags uint8

const (
	BlendAdditive       ConstantFlags = 1 << 0
	BlendMultiplicative ConstantFlags = 1 << 1
	IsDoubleSided       ConstantFlags = 1 << 2
	IsInvertedMask      ConstantFlags = 1 << 3
)

func (f ConstantFlags) Has(flag ConstantFlags) bool {
	return f&flag == flag
}

// BlendMode derives the blend mode. Additive wins when both bits are set.
func (f ConstantFlags) BlendMode() BlendMode {
	switch {
	case f.Has(BlendAdditive):
		return BlendModeAdditive
	case f.Has(BlendMultiplicative):
		return BlendModeMultiplicative
	default:
		return BlendModeNormal
	}
}

// DynamicFlags are refreshed by every model update.
type DynamicFlags uint8

const (
	IsVisible                DynamicFlags = 1 << 0
	VisibilityDidChange      DynamicFlags = 1 << 1
	OpacityDidChange         DynamicFlags = 1 << 2
	DrawOrderDidChange       DynamicFlags = 1 << 3
	RenderOrderDidChange     DynamicFlags = 1 << 4
	VertexPositionsDidChange DynamicFlags = 1 << 5
)

func (f DynamicFlags) Has(flag DynamicFlags) bool {
	return f&flag == flag
}

type BlendMode uint8

const (
	BlendModeNormal BlendMode = iota
	BlendModeAdditive
	BlendModeMultiplicative
)

func (b BlendMode) String() string {
	switch b {
	case BlendModeAdditive:
		return "additive"
	case BlendModeMultiplicative:
		return "multiplicative"
	default:
		return "normal"
	}
}
