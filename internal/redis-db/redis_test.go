package redis_db

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
)

func TestParseRedisURL_DockerStyle(t *testing.T) {
	opts, err := ParseRedisURL("redis:6379")
	assert.NoError(t, err)
	assert.Equal(t, "redis:6379", opts.Addr)
}

func TestParseRedisURL_Scheme(t *testing.T) {
	opts, err := ParseRedisURL("redis://:secret@localhost:6380/2")
	assert.NoError(t, err)
	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	r, err := NewRedisClient([]string{fmt.Sprintf("redis://%s", mr.Addr())})
	assert.NoError(t, err)
	assert.NotNil(t, r.Client())
}

func TestNewRedisClient_EmptyAddresses(t *testing.T) {
	_, err := NewRedisClient(nil)
	assert.EqualError(t, err, "redis addresses list cannot be empty")
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient([]string{"redis://127.0.0.1:1"})
	assert.Error(t, err)
}
