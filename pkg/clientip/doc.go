// Package clientip extracts real client IP addresses from HTTP requests.
//
// Proxy headers are checked in priority order (CF-Connecting-IP,
// DO-Connecting-IP, X-Forwarded-For, X-Real-IP) before falling back to
// RemoteAddr. Every candidate is validated and normalized; the unspecified
// address is rejected.
package clientip
