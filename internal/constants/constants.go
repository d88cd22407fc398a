package constants

import "time"

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultHTTPTimeout = 10 * time.Second
)

const (
	DefaultStoragePath = "data/messages.json"
	StorageFileMode    = 0o644
	StorageDirMode     = 0o755
)

const (
	SignatureHeader = "X-Line-Signature"
)

const (
	LineAPIEndpoint = "https://api.line.me"
)

const (
	ResourceScheme   = "line"
	ResourceMIMEType = "application/json"
)
