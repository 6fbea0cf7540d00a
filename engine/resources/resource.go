package resources

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Text resource type. */
	ResourceTypeText ResourceType = iota
	/** @brief Binary resource type (SPIR-V words). */
	ResourceTypeBinary
	/** @brief Image resource type. */
	ResourceTypeImage
	/** @brief Bitmap font resource type. */
	ResourceTypeBitmapFont
	/** @brief Raw moc3 bytes. */
	ResourceTypeMoc
	/** @brief model3.json settings. */
	ResourceTypeModel
	/** @brief motion3.json curves. */
	ResourceTypeMotion
	/** @brief exp3.json expression. */
	ResourceTypeExpression
	/** @brief physics3.json rig. */
	ResourceTypePhysics
	/** @brief pose3.json part groups. */
	ResourceTypePose
	/** @brief cdi3.json display info. */
	ResourceTypeDisplayInfo
	/** @brief userdata3.json. */
	ResourceTypeUserData
	/** @brief TrueType or OpenType font file. */
	ResourceTypeSystemFont
	/** @brief Custom resource type. Used by loaders outside the core engine. */
	ResourceTypeCustom
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeText:
		return "text"
	case ResourceTypeBinary:
		return "binary"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeBitmapFont:
		return "bitmap-font"
	case ResourceTypeMoc:
		return "moc3"
	case ResourceTypeModel:
		return "model3"
	case ResourceTypeMotion:
		return "motion3"
	case ResourceTypeExpression:
		return "exp3"
	case ResourceTypePhysics:
		return "physics3"
	case ResourceTypePose:
		return "pose3"
	case ResourceTypeDisplayInfo:
		return "cdi3"
	case ResourceTypeUserData:
		return "userdata3"
	case ResourceTypeSystemFont:
		return "system-font"
	default:
		return "custom"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The resource type the loader produced. */
	Type ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}

/**
 * @brief Decoded image pixels, always 4 channel RGBA.
 */
type ImageResourceData struct {
	Width  uint32
	Height uint32
	/** @brief Tightly packed RGBA8 rows, top row first. */
	Pixels []uint8
	/** @brief True when the colour channels are multiplied by alpha. */
	Premultiplied bool
}

type ImageResourceParams struct {
	/** @brief Multiply colour by alpha while decoding. */
	Premultiply bool
	/** @brief Flip rows so the bottom row comes first. */
	FlipY bool
	/** @brief Downscale so neither side exceeds this. 0 keeps the size. */
	MaxSize uint32
}
