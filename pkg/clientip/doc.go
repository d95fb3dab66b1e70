// Package clientip resolves the address of the client behind an HTTP request.
//
// The proxy headers listed in Headers win over RemoteAddr. Every candidate is
// validated with net.ParseIP and normalized, so IPv6 addresses come back in
// their canonical form.
package clientip
