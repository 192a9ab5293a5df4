package redis

import "fmt"

// KeyBuilder builds environment-prefixed Redis keys so staging and
// production can share an instance without collisions.
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a key builder with an environment-based prefix.
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}
	return &KeyBuilder{prefix: prefix}
}

// BuildKey constructs a Redis key with the environment prefix.
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix.
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyUserCategoryVoted marks that a user has a confirmed vote in a category.
func (kb *KeyBuilder) KeyUserCategoryVoted(userID, category string) string {
	return kb.BuildKey(fmt.Sprintf(KeyUserCategoryVoted, userID, category))
}

// KeyCastLock is the short-lived lock held while one cast for a
// (user, category) pair is in flight.
func (kb *KeyBuilder) KeyCastLock(userID, category string) string {
	return kb.BuildKey(fmt.Sprintf(KeyCastLock, userID, category))
}

// KeyCandidatesAll caches the full candidate catalog.
func (kb *KeyBuilder) KeyCandidatesAll() string {
	return kb.BuildKey(KeyCandidatesAll)
}

// KeyLiveStatus caches the last classified live-status snapshot.
func (kb *KeyBuilder) KeyLiveStatus() string {
	return kb.BuildKey(KeyLiveStatus)
}

// KeyCustom builds a key from an arbitrary pattern.
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	return kb.BuildKey(fmt.Sprintf(pattern, args...))
}
