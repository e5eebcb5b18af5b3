// Package session keeps per-browser state for the server rendered pages.
package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"
)

const (
	keyFlashKind    = "flash_kind"
	keyFlashMessage = "flash_message"

	// CookieName is the name of the session cookie.
	CookieName = "usermgmt_session"

	// FlashSuccess marks a flash message reporting a completed action.
	FlashSuccess = "success"
	// FlashError marks a flash message reporting a failed action.
	FlashError = "danger"
)

// Store is the global session store instance.
var Store *session.Store

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// Init initializes the session store. A nil storage keeps sessions in memory.
func Init(storage fiber.Storage, expiry time.Duration) {
	cfg := session.Config{
		Storage:        storage,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	}

	if expiry > 0 {
		cfg.Expiration = expiry
	}

	Store = session.New(cfg)
}

// SetFlash stores a message for the next page view.
// Without an initialized store the message is dropped.
func SetFlash(c *fiber.Ctx, kind, message string) {
	if Store == nil {
		return
	}

	sess, err := Store.Get(c)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load session")
		return
	}

	sess.Set(keyFlashKind, kind)
	sess.Set(keyFlashMessage, message)

	if err = sess.Save(); err != nil {
		log.Warn().Err(err).Msg("failed to save session")
	}
}

// PopFlash returns and clears the pending message, nil if there is none.
func PopFlash(c *fiber.Ctx) *Flash {
	if Store == nil {
		return nil
	}

	sess, err := Store.Get(c)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load session")
		return nil
	}

	message, _ := sess.Get(keyFlashMessage).(string)
	if message == "" {
		return nil
	}

	kind, _ := sess.Get(keyFlashKind).(string)

	sess.Delete(keyFlashKind)
	sess.Delete(keyFlashMessage)

	if err = sess.Save(); err != nil {
		log.Warn().Err(err).Msg("failed to save session")
	}

	return &Flash{Kind: kind, Message: message}
}
