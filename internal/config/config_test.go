package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, parseOrigins(" http://a.test, ,http://b.test "))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("PP_TEST_INT", "42")
	assert.Equal(t, 42, getEnvInt("PP_TEST_INT", 7))

	t.Setenv("PP_TEST_INT", "forty-two")
	assert.Equal(t, 7, getEnvInt("PP_TEST_INT", 7))

	assert.Equal(t, 7, getEnvInt("PP_TEST_UNSET_INT", 7))
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("SECONDS_PER_QUESTION", "90")
	t.Setenv("RESULT_TTL_HOURS", "2")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000")

	cfg := Load()
	assert.Equal(t, 90, cfg.SecondsPerQuestion)
	assert.Equal(t, 2*time.Hour, cfg.ResultTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 10, cfg.DefaultQuizLimit)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "attempt:abc:state", CacheKey.AttemptStateKey("abc"))
	assert.Equal(t, "attempt:abc:result", CacheKey.AttemptResultKey("abc"))
	assert.Equal(t, "paper:jee-2023:questions", CacheKey.PaperQuestionsKey("jee-2023"))
	assert.Equal(t, "login:7:j1", CacheKey.UserSessionKey(7, "j1"))
}
