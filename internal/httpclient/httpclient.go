// Package httpclient contains common constants, functions, and types for
// working with HTTP, plus a small client used to talk to the dataset API.
package httpclient

import "github.com/cobaltwing/phishguard/internal/version"

// Common Constants, Functions And Types

// HTTP header value constants.
const (
	HdrValApplicationJSON        = "application/json"
	HdrValApplicationOctetStream = "application/octet-stream"
	HdrValGzip                   = "gzip"
	HdrValTextCSV                = "text/csv"
	HdrValTextHTML               = "text/html"
	HdrValTextPlain              = "text/plain"
	HdrValWildcard               = "*"
)

// userAgent is the cached User-Agent string for phishguard.
var userAgent = version.Name() + "/" + version.Version()

// UserAgent returns the ID of the service as a User-Agent string.  It can
// also be used as the value of the Server HTTP header.
func UserAgent() (ua string) {
	return userAgent
}
