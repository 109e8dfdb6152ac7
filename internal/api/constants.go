package api

// API limits and constants.
const (
	// MaxUploadSize is the maximum allowed request body size (10 MiB).
	MaxUploadSize = 10 << 20

	// multipartMemory is how much of a multipart body is buffered in memory
	// before spilling to temp files.
	multipartMemory = 2 << 20
)

// Multipart field names.
const (
	fieldBook    = "book"
	fieldCover   = "cover"
	fieldVersion = "version"
)

// CacheImmutable is the Cache-Control value for stored images. Cover file
// names are random per upload, so a path never changes content.
const CacheImmutable = "public, max-age=31536000, immutable"
