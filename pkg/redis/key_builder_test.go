package redis

import (
	"testing"
)

func TestKeyBuilderEnvironmentPrefixes(t *testing.T) {
	tests := []struct {
		name           string
		environment    string
		expectedPrefix string
	}{
		{
			name:           "Production environment should use prod prefix",
			environment:    "production",
			expectedPrefix: "prod",
		},
		{
			name:           "Development environment should use staging prefix",
			environment:    "development",
			expectedPrefix: "staging",
		},
		{
			name:           "Staging environment should use staging prefix",
			environment:    "staging",
			expectedPrefix: "staging",
		},
		{
			name:           "Unknown environment should default to prod prefix",
			environment:    "unknown",
			expectedPrefix: "prod",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			if kb.GetPrefix() != tt.expectedPrefix {
				t.Errorf("NewKeyBuilder(%s).GetPrefix() = %s, want %s",
					tt.environment, kb.GetPrefix(), tt.expectedPrefix)
			}
		})
	}
}

func TestKeyBuilderKeyGeneration(t *testing.T) {
	kb := NewKeyBuilder("production")

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "UserCategoryVoted key",
			key:      kb.KeyUserCategoryVoted("u1", "president"),
			expected: "prod:voting:user:u1:category:president:voted",
		},
		{
			name:     "CastLock key",
			key:      kb.KeyCastLock("u1", "president"),
			expected: "prod:voting:cast:u1:president",
		},
		{
			name:     "CandidatesAll key",
			key:      kb.KeyCandidatesAll(),
			expected: "prod:voting:candidates:all",
		},
		{
			name:     "LiveStatus key",
			key:      kb.KeyLiveStatus(),
			expected: "prod:voting:live",
		},
		{
			name:     "Custom key",
			key:      kb.KeyCustom("voting:session:%s", "abc"),
			expected: "prod:voting:session:abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key != tt.expected {
				t.Errorf("got %s, want %s", tt.key, tt.expected)
			}
		})
	}
}
