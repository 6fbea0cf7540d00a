package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector. Also used for rgba colours and packed
// scale/offset transforms (X, Y scale; Z, W offset).
type Vec4 struct {
	X, Y, Z, W float32
}

/** @brief a 4x4 matrix, row major with the translation in elements 12..14. */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}

/**
 * @brief An axis aligned rectangle. Y grows with Height, so Bottom is Y+Height.
 */
type Rect struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

/**
 * @brief Represents a single vertex in 2D space.
 */
type Vertex2D struct {
	/** @brief The position of the vertex */
	Position Vec2
	/** @brief The texture coordinate of the vertex. */
	Texcoord Vec2
}
