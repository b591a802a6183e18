package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidURI = errors.New("invalid uri")

// CleanURI normalizes an absolute page URL to scheme, host, port, path and query.
// User info and fragment are dropped, scheme and host are lowercased and default ports removed.
func CleanURI(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURI
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %s is not absolute", ErrInvalidURI, raw)
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host = host + ":" + port
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	out := scheme + "://" + host + path
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out, nil
}

// AbsoluteURL makes a site-relative path absolute against root. Values already starting with
// http are returned unchanged.
func AbsoluteURL(root, value string) string {
	if value == "" || strings.HasPrefix(value, "http") {
		return value
	}
	if root == "" {
		return value
	}
	return strings.TrimRight(root, "/") + "/" + strings.TrimLeft(value, "/")
}
