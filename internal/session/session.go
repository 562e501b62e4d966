// Package session identifies anonymous visitors. Each browser gets a random
// session cookie; only a keyed hash of it is ever stored, so database rows
// cannot be joined back to a cookie without the server key.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

const (
	CookieName = "vault_session"
	cookieTTL  = 365 * 24 * time.Hour

	localsID   = "session_id"
	localsHash = "session_hash"
)

// Hasher derives stable, keyed digests of session IDs.
type Hasher struct {
	key []byte
}

// NewHasher builds a Hasher from a secret. Keys longer than blake2b allows
// are compressed first. An empty secret gets a random per-process key, so
// hashes will not survive a restart.
func NewHasher(secret string) *Hasher {
	key := []byte(secret)
	if len(key) == 0 {
		slog.Warn("SESSION_HASH_KEY not set, using an ephemeral key")
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	return &Hasher{key: key}
}

// Hash returns the hex digest of id.
func (h *Hasher) Hash(id string) string {
	mac, err := blake2b.New256(h.key)
	if err != nil {
		// Key length is checked in NewHasher.
		panic(err)
	}
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

// Middleware reads the session cookie, issuing a new one when it is missing
// or malformed, and stores the ID and its hash in the request locals.
func Middleware(hasher *Hasher, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(CookieName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().Add(cookieTTL),
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(localsID, id)
		c.Locals(localsHash, hasher.Hash(id))
		return c.Next()
	}
}

// GetID returns the visitor's session ID, or "" outside the middleware.
func GetID(c *fiber.Ctx) string {
	if id, ok := c.Locals(localsID).(string); ok {
		return id
	}
	return ""
}

// GetHash returns the keyed hash of the visitor's session ID.
func GetHash(c *fiber.Ctx) string {
	if h, ok := c.Locals(localsHash).(string); ok {
		return h
	}
	return ""
}
