package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding one login of a user.
// A user may be logged in on several devices; each login has its own JTI.
func (r *CacheKeyStruct) UserSessionKey(userID int, jti string) string {
	return fmt.Sprintf("login:%d:%s", userID, jti)
}

// AttemptStateKey returns the cache key for an attempt's session snapshot
func (r *CacheKeyStruct) AttemptStateKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:state", attemptID)
}

// AttemptResultKey returns the cache key for an attempt's submitted result
func (r *CacheKeyStruct) AttemptResultKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:result", attemptID)
}

// PaperQuestionsKey returns the cache key for a paper's enriched questions
func (r *CacheKeyStruct) PaperQuestionsKey(paperID string) string {
	return fmt.Sprintf("paper:%s:questions", paperID)
}

// UserActiveAttemptKey returns the cache key for a user's last started attempt
func (r *CacheKeyStruct) UserActiveAttemptKey(userID int) string {
	return fmt.Sprintf("user:%d:active_attempt", userID)
}

var CacheKey = NewCacheKeyStruct()
