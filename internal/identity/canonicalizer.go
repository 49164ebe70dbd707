package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// hashLength is the number of hex characters retained from the SHA-256
// digest of a fully qualified name. Sixteen hex characters (64 bits) keeps
// ids short while remaining collision-resistant for a single solution's
// symbol population.
const hashLength = 16

// Canonicalize derives the canonical id "grafo:{typeSlug}/{hash}" for a
// given node kind and fully qualified name. The hash is a truncated SHA-256
// digest of the fully qualified name, so the same (kind, name) pair always
// produces the same id across runs.
func Canonicalize(kind NodeKind, fullyQualifiedName string) string {
	digest := sha256.Sum256([]byte(fullyQualifiedName))
	hash := hex.EncodeToString(digest[:])[:hashLength]
	return fmt.Sprintf("grafo:%s/%s", TypeSlug(kind), hash)
}

// Canonicalizer maintains the per-run map from legacy identifiers (the
// colon-delimited "component:Namespace.Class.Method" form symbols carry
// before canonicalization) to their canonical ids, so edges referencing a
// legacy id can be rewritten without re-resolving the symbol it names.
type Canonicalizer struct {
	mu      sync.RWMutex
	legacy  map[string]string
	minted  map[string]string // fullyQualifiedName+kind -> canonical id, avoids re-hashing
}

// NewCanonicalizer returns an empty Canonicalizer ready for concurrent use.
func NewCanonicalizer() *Canonicalizer {
	return &Canonicalizer{
		legacy: make(map[string]string),
		minted: make(map[string]string),
	}
}

// ID returns the canonical id for (kind, fullyQualifiedName), registering a
// legacyID -> canonical mapping if legacyID is non-empty; a mapping already
// recorded for legacyID is overwritten.
func (c *Canonicalizer) ID(kind NodeKind, fullyQualifiedName, legacyID string) string {
	key := string(kind) + "|" + fullyQualifiedName

	c.mu.RLock()
	id, ok := c.minted[key]
	c.mu.RUnlock()
	if !ok {
		id = Canonicalize(kind, fullyQualifiedName)
		c.mu.Lock()
		c.minted[key] = id
		c.mu.Unlock()
	}

	if legacyID != "" {
		c.mu.Lock()
		c.legacy[legacyID] = id
		c.mu.Unlock()
	}

	return id
}

// Resolve looks up the canonical id for a previously registered legacy id.
// It returns ok=false when legacyID was never registered via ID.
func (c *Canonicalizer) Resolve(legacyID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.legacy[legacyID]
	return id, ok
}

// Len reports how many canonical ids have been minted this run.
func (c *Canonicalizer) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.minted)
}
