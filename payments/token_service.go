package payments

import (
	"context"
	"log"
	"sync"
	"time"
)

// tokenFetcher returns a fresh access token and its lifetime in seconds.
type tokenFetcher func(ctx context.Context) (string, int, error)

// tokenCache holds one OAuth access token and refreshes it shortly before it expires.
type tokenCache struct {
	mu     sync.RWMutex
	token  string
	expiry time.Time
	now    func() time.Time
}

func newTokenCache() *tokenCache {
	return &tokenCache{now: time.Now}
}

func (c *tokenCache) get(ctx context.Context, fetch tokenFetcher) (string, error) {
	c.mu.RLock()
	if c.token != "" && c.now().Before(c.expiry) {
		token := c.token
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiry) {
		return c.token, nil
	}

	token, expiresIn, err := fetch(ctx)
	if err != nil {
		return "", err
	}

	lifetime := expiresIn - 300
	if lifetime <= 0 {
		lifetime = expiresIn / 2
	}
	c.token = token
	c.expiry = c.now().Add(time.Duration(lifetime) * time.Second)
	log.Println("Successfully fetched and cached PayPal access token.")

	return c.token, nil
}

func (c *tokenCache) invalidate() {
	c.mu.Lock()
	c.token = ""
	c.expiry = time.Time{}
	c.mu.Unlock()
}
