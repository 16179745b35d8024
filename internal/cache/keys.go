package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultNamespace = "costar"
	defaultVersion   = "v1"
)

// Key domains. Each gets its own segment so keys never collide across domains.
const (
	domainProfile    = "actor:profile"
	domainMovies     = "actor:movies"
	domainName       = "actor:name"
	domainSearch     = "search"
	domainComparison = "compare"
	domainHealth     = "health"
	domainFallback   = "fallback"
)

// KeyBuilder builds namespaced, versioned cache keys. Bumping the version
// invalidates every key built by the previous one.
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder returns a builder for namespace and version.
// Empty values fall back to "costar" and "v1".
func NewKeyBuilder(namespace, version string) KeyBuilder {
	if namespace == "" {
		namespace = defaultNamespace
	}
	if version == "" {
		version = defaultVersion
	}
	return KeyBuilder{prefix: namespace + ":" + version + ":"}
}

// DefaultKeys is the builder used when none is configured.
var DefaultKeys = NewKeyBuilder(defaultNamespace, defaultVersion)

func (k KeyBuilder) key(domain, id string) string {
	return k.prefix + domain + ":" + id
}

// Profile is the key for an actor profile.
func (k KeyBuilder) Profile(actorID int64) string {
	return k.key(domainProfile, fmt.Sprint(actorID))
}

// Movies is the key for an actor's processed movie credits.
func (k KeyBuilder) Movies(actorID int64) string {
	return k.key(domainMovies, fmt.Sprint(actorID))
}

// Name is the key for an actor name lookup.
func (k KeyBuilder) Name(actorID int64) string {
	return k.key(domainName, fmt.Sprint(actorID))
}

// Search is the key for person search results. The query is normalized and hashed.
func (k KeyBuilder) Search(query string) string {
	return k.key(domainSearch, hashText(NormalizeQuery(query)))
}

// Comparison is the key for a comparison of two actors. Argument order does not matter.
func (k KeyBuilder) Comparison(actor1ID, actor2ID int64) string {
	lo, hi := actor1ID, actor2ID
	if lo > hi {
		lo, hi = hi, lo
	}
	return k.key(domainComparison, fmt.Sprintf("%d:%d", lo, hi))
}

// Health is the key for a cached health check of a named dependency.
func (k KeyBuilder) Health(dependency string) string {
	return k.key(domainHealth, dependency)
}

// Fallback is the key for the last good response of an endpoint.
func (k KeyBuilder) Fallback(endpoint string) string {
	return k.key(domainFallback, hashText(endpoint))
}

// NormalizeQuery trims, lower-cases, NFC-normalizes and collapses whitespace in
// free text so equivalent queries share a cache key.
func NormalizeQuery(q string) string {
	s := norm.NFC.String(q)
	s = cases.Lower(language.Und).String(s)
	return strings.Join(strings.Fields(s), " ")
}

func hashText(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
