package catalog

import (
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// ResolveSubdomain derives a manufacturer lookup code from a request host.
// It returns "" for bare IP addresses and for hosts without a subdomain
// label (localhost, example.com).
func ResolveSubdomain(host string) string {
	hostname := stripPort(host)
	if hostname == "" {
		return ""
	}
	if _, err := netip.ParseAddr(hostname); err == nil {
		return ""
	}
	labels := strings.Split(hostname, ".")
	if len(labels) < 3 {
		return ""
	}
	return strings.ToLower(labels[0])
}

// MatchesSubdomain reports whether the host's subdomain already resolves to
// the given manufacturer lookup code.
func MatchesSubdomain(host, code string) bool {
	if code == "" {
		return false
	}
	return ResolveSubdomain(host) == strings.ToLower(code)
}

// SubdomainRedirect builds the one-hop redirect target for a request whose
// canonical manufacturer differs from the current host. Path, query, and
// fragment are preserved; only the host changes. An empty code yields ""
// (no rewrite).
func SubdomainRedirect(requestURL *url.URL, host, code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || requestURL == nil {
		return ""
	}
	if MatchesSubdomain(host, code) {
		return ""
	}

	hostname, port := splitHostPort(host)
	if hostname == "" {
		return ""
	}
	if _, err := netip.ParseAddr(hostname); err == nil {
		return ""
	}

	labels := strings.Split(hostname, ".")
	if len(labels) >= 3 {
		labels[0] = code
	} else {
		labels = append([]string{code}, labels...)
	}
	newHost := strings.Join(labels, ".")
	if port != "" {
		newHost = net.JoinHostPort(newHost, port)
	}

	target := *requestURL
	target.Host = newHost
	if target.Scheme == "" {
		target.Scheme = "http"
	}
	return target.String()
}

func stripPort(host string) string {
	hostname, _ := splitHostPort(host)
	return hostname
}

func splitHostPort(host string) (string, string) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", ""
	}
	if hostname, port, err := net.SplitHostPort(host); err == nil {
		return hostname, port
	}
	return host, ""
}
