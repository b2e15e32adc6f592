package shortener

import "strings"

// LinkBuilder turns short codes into absolute links on the public domain.
type LinkBuilder struct {
	domain string
}

// NewLinkBuilder creates a link builder for a bare domain such as "sho.rt" or "localhost:8888".
func NewLinkBuilder(domain string) *LinkBuilder {
	return &LinkBuilder{domain: strings.TrimSuffix(domain, "/")}
}

// Build returns the public short link for a code.
func (b *LinkBuilder) Build(code string) string {
	scheme := "https://"
	if strings.HasPrefix(b.domain, "localhost") {
		scheme = "http://"
	}

	return scheme + b.domain + "/" + code
}
