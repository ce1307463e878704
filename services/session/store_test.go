package sessionsvc

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mediateam/core"
)

func newTestStore(t *testing.T, secret string) *Store {
	s, err := NewStore(&core.Config{
		SecretKey: secret,
		Session:   core.SessionConfig{CookieName: "mediateam_session", MaxAge: time.Hour},
	})
	require.NoError(t, err)
	return s
}

// roundTrip returns a request carrying the cookies set on rec.
func roundTrip(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNewStore_noSecret(t *testing.T) {
	_, err := NewStore(&core.Config{})
	assert.Equal(t, errNoSecret, err)
}

func TestCookieHolder(t *testing.T) {
	s := newTestStore(t, "s3cr3t")

	rec := httptest.NewRecorder()
	h := s.Holder(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "", h.Token())
	require.NoError(t, h.SetToken("abc"))
	assert.Equal(t, "abc", h.Token())

	cookie := rec.Result().Cookies()
	require.Len(t, cookie, 1)
	assert.NotContains(t, cookie[0].Value, "abc", "the token must not travel in clear")
	assert.True(t, cookie[0].HttpOnly)

	rec2 := httptest.NewRecorder()
	h2 := s.Holder(rec2, roundTrip(rec))
	assert.Equal(t, "abc", h2.Token())

	require.NoError(t, h2.Clear())
	assert.Equal(t, "", s.Holder(httptest.NewRecorder(), roundTrip(rec2)).Token())
}

func TestCookieHolder_otherSecret(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, newTestStore(t, "one").Holder(rec, httptest.NewRequest(http.MethodGet, "/", nil)).SetToken("abc"))

	h := newTestStore(t, "two").Holder(httptest.NewRecorder(), roundTrip(rec))
	assert.Equal(t, "", h.Token(), "a cookie sealed with another key is a fresh session")
}

func TestCookieHolder_flashes(t *testing.T) {
	s := newTestStore(t, "s3cr3t")

	rec := httptest.NewRecorder()
	h := s.Holder(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, h.AddFlash("انتهت الجلسة"))

	rec2 := httptest.NewRecorder()
	assert.Equal(t, []string{"انتهت الجلسة"}, s.Holder(rec2, roundTrip(rec)).Flashes())
	assert.Empty(t, s.Holder(httptest.NewRecorder(), roundTrip(rec2)).Flashes())
}
