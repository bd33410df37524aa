package curvetex

// Channel layout constants
const (
	scalarStride = 1 // Scalar curves
	vectorStride = 3 // Vector3 and color curves
	rgbaStride   = 4 // Raw RGBA data and merged color+alpha pixels

	alphaChannel = 3 // Index of A within an RGBA pixel
	opaqueAlpha  = 1.0
)

// Resolution selection constants
const (
	// DefaultSeedStep is the upper bound for the smallest normalized gap.
	// A curve with a single keyframe bakes to ceil(1/0.5)+1 = 3 pixels.
	DefaultSeedStep = 0.5

	// DefaultMaxWidth matches the WebGPU default maxTextureDimension2D limit.
	DefaultMaxWidth = 8192

	minWidth    = 2 // Grid needs both endpoints
	maxSeedStep = 1.0
	widthExtra  = 1 // Samples = intervals + 1
)

// Texture layout constants
const (
	textureHeight    = 1
	bytesPerChannel  = 4 // float32
	texelCenterShift = 0.5
)
