package metadata

/** @brief The default texture name. */
const DEFAULT_TEXTURE_NAME string = "default"

/**
 * @brief Represents a texture. Pixels are RGBA8, top row first.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uint32
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The texture Generation. Incremented every time the data is reloaded. */
	Generation uint32
	/** @brief The texture Name. */
	Name string
	/** @brief Backend specific data. */
	InternalData interface{}
}

/**
 * @brief Builds the pixels of the default texture, a dim x dim magenta/white
 * checkerboard used in place of textures that failed to load.
 */
func DefaultTexturePixels(dim uint32) []uint8 {
	const channels = 4
	pixels := make([]uint8, dim*dim*channels)
	for i := range pixels {
		pixels[i] = 255
	}

	for row := uint32(0); row < dim; row++ {
		for col := uint32(0); col < dim; col++ {
			index := ((row * dim) + col) * channels
			if (row/8+col/8)%2 != 0 {
				pixels[index+1] = 0
			}
		}
	}
	return pixels
}
