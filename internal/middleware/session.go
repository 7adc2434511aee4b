package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Invincible1602/AyurYoga/internal/session"
	"github.com/Invincible1602/AyurYoga/pkg/config"
)

const (
	// SessionStoreKey is the context key for the request's session store
	SessionStoreKey = "session_store"
	// VisitIDKey is the context key for the visit identifier
	VisitIDKey = "visit_id"
)

// cookieStorage adapts the visitor's cookie jar to session.TokenStorage.
// Load reads the request cookie, Save and Clear write response cookies,
// so the surviving copy of the token always lives on the browser.
type cookieStorage struct {
	c   *gin.Context
	cfg config.SessionConfig
}

func (s *cookieStorage) Load() (string, error) {
	token, err := s.c.Cookie(s.cfg.TokenCookie)
	if err == http.ErrNoCookie {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *cookieStorage) Save(token string) error {
	s.c.SetCookie(s.cfg.TokenCookie, token, int(s.cfg.CookieMaxAge.Seconds()), "/", "", s.cfg.CookieSecure, true)
	return nil
}

func (s *cookieStorage) Clear() error {
	s.c.SetCookie(s.cfg.TokenCookie, "", -1, "/", "", s.cfg.CookieSecure, true)
	return nil
}

// Session builds a session store for each request over the visitor's
// cookies and hydrates it, so handlers downstream see a settled identity.
// It also assigns a visit identifier cookie used to key the pending
// destination when a protected navigation is denied.
func Session(cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		visitID, err := c.Cookie(cfg.VisitCookie)
		if err != nil || visitID == "" {
			visitID = uuid.New().String()
			c.SetCookie(cfg.VisitCookie, visitID, 0, "/", "", cfg.CookieSecure, true)
		}
		c.Set(VisitIDKey, visitID)

		store := session.NewStore(&cookieStorage{c: c, cfg: cfg})
		store.Hydrate()
		c.Set(SessionStoreKey, store)

		c.Next()
	}
}

// StoreFrom returns the request's session store, or nil outside the
// Session middleware.
func StoreFrom(c *gin.Context) *session.Store {
	if v, exists := c.Get(SessionStoreKey); exists {
		if store, ok := v.(*session.Store); ok {
			return store
		}
	}
	return nil
}

// VisitID returns the visit identifier from context
func VisitID(c *gin.Context) string {
	if v, exists := c.Get(VisitIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
