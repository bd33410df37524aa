package main

// Default command-line flag values
const (
	defaultOutDir  = "."
	defaultWAVRate = 8000 // Hz
)

// CLI argument limits
const (
	minRequiredArgs = 1
)

// Output file extensions
const (
	binExt        = ".bin"
	descriptorExt = ".yaml"
	wavExt        = ".wav"
)

// WAV preview parameters
const (
	wavBitDepth      = 16
	wavPCMFormat     = 1 // WAVE_FORMAT_PCM
	maxInt16         = 32767.0
	maxPreviewLength = 60.0 // seconds
)

// File permissions
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Memory conversion
const (
	bytesPerKilobyte = 1024
)
