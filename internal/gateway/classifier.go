// Package gateway is the single outbound HTTP path to the backend. It decides
// per request whether the bearer credential travels and reacts uniformly to
// session-invalidating responses.
package gateway

import (
	"fmt"
	"net/url"
	"strings"
)

// Class is the credential policy of a request
type Class int

// Classes
const (
	Protected Class = iota
	Public
)

func (c Class) String() string {
	if c == Public {
		return "public"
	}
	return "protected"
}

// Classifier matches request paths against the public allow-list
type Classifier struct {
	base      string
	apiPrefix string
	public    []string
}

// NewClassifier creates a classifier. Public prefixes match with and without apiPrefix.
func NewClassifier(baseURL, apiPrefix string, publicPrefixes []string) (*Classifier, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	c := &Classifier{
		base:      strings.TrimRight(u.String(), "/"),
		apiPrefix: "/" + strings.Trim(apiPrefix, "/"),
	}
	if c.apiPrefix == "/" {
		c.apiPrefix = ""
	}
	for _, p := range publicPrefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		c.public = append(c.public, "/"+strings.TrimLeft(p, "/"))
	}
	return c, nil
}

// Base returns the configured base URL without a trailing slash
func (c *Classifier) Base() string {
	return c.base
}

// Resolve joins a relative reference onto the base URL. Absolute URLs are returned as is.
// A reference repeating the API prefix the base already ends with is not doubled.
func (c *Classifier) Resolve(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	if ref == "" {
		return c.base
	}
	ref = "/" + strings.TrimLeft(ref, "/")
	if c.apiPrefix != "" && strings.HasSuffix(c.base, c.apiPrefix) &&
		(ref == c.apiPrefix || strings.HasPrefix(ref, c.apiPrefix+"/")) {
		ref = strings.TrimPrefix(ref, c.apiPrefix)
	}
	return c.base + ref
}

// Classify resolves ref against the base URL and classifies its path
func (c *Classifier) Classify(ref string) Class {
	u, err := url.Parse(c.Resolve(ref))
	if err != nil {
		return c.classifyPath(ref)
	}
	return c.ClassifyURL(u)
}

// ClassifyURL classifies an already resolved URL
func (c *Classifier) ClassifyURL(u *url.URL) Class {
	if u == nil {
		return Protected
	}
	return c.classifyPath(u.Path)
}

func (c *Classifier) classifyPath(p string) Class {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for _, prefix := range c.public {
		if strings.HasPrefix(p, prefix) {
			return Public
		}
		if c.apiPrefix != "" && strings.HasPrefix(p, c.apiPrefix+prefix) {
			return Public
		}
	}
	return Protected
}
