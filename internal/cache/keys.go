package cache

import (
	"strings"
	"time"
)

const (
	GlobalKeyPrefix = "learnpath"

	// QuestionBankTTL is long: the bank is static input, edited only by an
	// external admin tool.
	QuestionBankTTL = 12 * time.Hour
	StudentPathTTL  = 10 * time.Minute
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// QuestionBankKey is the cache key for the full diagnostic question bank.
func QuestionBankKey() string {
	return GenerateCacheKey("diagnostic", "questions", "bank")
}

// StudentPathKey is the cache key for a student's assembled path response.
func StudentPathKey(studentID string) string {
	return GenerateCacheKey("curation", "path", studentID)
}
