package testhelpers

import (
	"context"
	referrallinkcache "jobmarket-backend/lib/referral/link-cache"
	"sync"
)

type LinkCache struct {
	mu     sync.Mutex
	tokens map[string]string
	Hits   int
}

var _ referrallinkcache.Provider = (*LinkCache)(nil)

func NewLinkCache() *LinkCache {
	return &LinkCache{
		tokens: map[string]string{},
	}
}

func (c *LinkCache) Get(ctx context.Context, jobID, referrerID string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	token, ok := c.tokens[referrallinkcache.Key(jobID, referrerID)]
	if ok {
		c.Hits++
	}
	return token, ok, nil
}

func (c *LinkCache) Set(ctx context.Context, jobID, referrerID, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[referrallinkcache.Key(jobID, referrerID)] = token
	return nil
}
