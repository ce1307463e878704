// Package sessionsvc keeps the dashboard session in an encrypted cookie.
package sessionsvc

import (
	"crypto/sha256"
	"encoding/gob"
	"io"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/session"
)

const (
	tokenKey = "authToken"

	hashKeyInfo  = "mediateam-session-hash"
	blockKeyInfo = "mediateam-session-block"
)

var errNoSecret = errors.New("secretKey is required for cookie sessions")

func init() {
	// flashes are stored as []interface{}
	gob.Register([]interface{}{})
}

type Store struct {
	cookies *sessions.CookieStore
	name    string
}

// NewStore derives the cookie signing and encryption keys from conf.SecretKey.
func NewStore(conf *core.Config) (*Store, error) {
	if conf.SecretKey == "" {
		return nil, errNoSecret
	}
	hashKey, err := deriveKey(conf.SecretKey, hashKeyInfo, 64)
	if err != nil {
		return nil, err
	}
	blockKey, err := deriveKey(conf.SecretKey, blockKeyInfo, 32)
	if err != nil {
		return nil, err
	}

	cookies := sessions.NewCookieStore(hashKey, blockKey)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(conf.Session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   conf.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cookies, name: conf.Session.CookieName}, nil
}

func deriveKey(secret, info string, size int) ([]byte, error) {
	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, errors.Wrap(err, "deriving session key")
	}
	return key, nil
}

// Holder loads the session of r. A cookie that cannot be decoded starts a fresh session.
func (s *Store) Holder(w http.ResponseWriter, r *http.Request) *CookieHolder {
	sess, err := s.cookies.Get(r, s.name)
	if err != nil {
		sess, _ = s.cookies.New(r, s.name)
		sess.IsNew = true
	}
	return &CookieHolder{sess: sess, w: w, r: r}
}

// CookieHolder is the session.Holder of one dashboard request.
// Writes must happen before the response is committed.
type CookieHolder struct {
	sess *sessions.Session
	w    http.ResponseWriter
	r    *http.Request
}

var _ session.Holder = (*CookieHolder)(nil)

func (h *CookieHolder) Token() string {
	token, _ := h.sess.Values[tokenKey].(string)
	return token
}

func (h *CookieHolder) SetToken(token string) error {
	h.sess.Values[tokenKey] = token
	return h.save()
}

// Clear drops the token but keeps the cookie so flashes survive the redirect to the login page.
func (h *CookieHolder) Clear() error {
	delete(h.sess.Values, tokenKey)
	return h.save()
}

func (h *CookieHolder) AddFlash(msg string) error {
	h.sess.AddFlash(msg)
	return h.save()
}

// Flashes pops the pending flash messages.
func (h *CookieHolder) Flashes() []string {
	raw := h.sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	_ = h.save()
	return msgs
}

func (h *CookieHolder) save() error {
	return errors.Wrap(h.sess.Save(h.r, h.w), "saving session")
}
