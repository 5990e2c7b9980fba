// Package verifier speaks the siteverify protocol shared by Cloudflare
// Turnstile and compatible captcha endpoints.
package verifier

import (
	"net/url"
	"strings"
)

// Param is a single form parameter attached to a siteverify request.
type Param struct {
	Name  string
	Value string
}

// Request is the payload posted to the verification endpoint.
type Request struct {
	Secret   string
	Response string
	Params   []Param
}

// Encode renders the request as a urlencoded body. Unlike url.Values, the
// order of Params is kept.
func (r Request) Encode() string {
	var b strings.Builder
	write := func(k, v string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	write("secret", r.Secret)
	write("response", r.Response)
	for _, p := range r.Params {
		write(p.Name, p.Value)
	}
	return b.String()
}

// Result is the decoded siteverify response.
type Result struct {
	Success     bool
	ErrorCodes  []string
	ChallengeTS string
	Hostname    string
	Action      string
	CData       string
}
