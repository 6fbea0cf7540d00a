package metadata

/** @brief Determines face culling mode during rendering. */
type FaceCullMode int

const (
	/** @brief No faces are culled. */
	FaceCullModeNone FaceCullMode = 0x0
	/** @brief Only front faces are culled. */
	FaceCullModeFront FaceCullMode = 0x1
	/** @brief Only back faces are culled. */
	FaceCullModeBack FaceCullMode = 0x2
	/** @brief Both front and back faces are culled. */
	FaceCullModeFrontAndBack FaceCullMode = 0x3
)

// BlendFactor is the subset of blend factors the model passes use.
type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstColor
	BlendFactorOneMinusSrcColor
)

func (b BlendFactor) String() string {
	switch b {
	case BlendFactorZero:
		return "zero"
	case BlendFactorOne:
		return "one"
	case BlendFactorSrcAlpha:
		return "src_alpha"
	case BlendFactorOneMinusSrcAlpha:
		return "one_minus_src_alpha"
	case BlendFactorDstColor:
		return "dst_color"
	case BlendFactorOneMinusSrcColor:
		return "one_minus_src_color"
	default:
		return "unknown"
	}
}

/**
 * @brief Separate colour and alpha blend factors, always combined with an add
 * equation.
 */
type BlendState struct {
	SrcColor BlendFactor
	DstColor BlendFactor
	SrcAlpha BlendFactor
	DstAlpha BlendFactor
}
