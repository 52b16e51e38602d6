package unpaker

import "github.com/mxtherfxcker/unpaker/internal/decoder"

// Config is a plain value threaded through Open; there is no package-level
// singleton or global state, so multiple archives with different limits
// can be opened concurrently in the same process. Grounded on
// WiCOS64-Remote-Storage-Server/internal/config's plain-struct-with-
// documented-defaults convention.
type Config struct {
	Limits decoder.Limits
}

// DefaultConfig returns the limits spec.md documents per caller: extension
// names up to 50 bytes, directory/filename/UE paths up to 512, a UE PAK
// entry-count cap of 100,000 substituted by a 256-entry safety cap, and a
// 10,000-byte resync scan window.
func DefaultConfig() Config {
	return Config{Limits: decoder.DefaultLimits()}
}
