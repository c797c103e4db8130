// Package fetch retrieves pages of the venue directory over HTTP.
//
// The Client sends a fixed desktop browser User-Agent together with any
// configured extra headers and cookie, optionally routes traffic through an
// HTTP or SOCKS5 proxy, and decodes the body to UTF-8 based on the declared
// or sniffed charset.
package fetch
