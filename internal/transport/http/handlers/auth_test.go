package http_handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/transport/http/dto"
)

const goodPassword = "Password123!"

func TestRegister_CreatesUnverifiedUser(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/register/", mustJSONBody(t, map[string]string{
		"email": "A@B.com", "password": goodPassword,
	}))
	rr := httptest.NewRecorder()
	env.auth.Register(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var u dto.UserView
	mustReadData(t, rr.Body, &u)
	assert.Equal(t, "a@b.com", u.Email)
	assert.False(t, u.EmailVerified)
	assert.NotContains(t, rr.Body.String(), "password")
	assert.NotEmpty(t, env.pub.lastToken(t))
}

func TestRegister_Duplicate_409(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@b.com", goodPassword)

	req := httptest.NewRequest(http.MethodPost, "/register/", mustJSONBody(t, map[string]string{
		"email": "a@b.com", "password": goodPassword,
	}))
	rr := httptest.NewRecorder()
	env.auth.Register(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "email_already_exists", errCode(t, rr))
}

func TestRegister_BadInput_400(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"invalid json", `{"email":`, "invalid_json"},
		{"missing email", `{"password":"Password123!"}`, "missing_field"},
		{"weak password", `{"email":"a@b.com","password":"short"}`, "weak_password"},
		{"trailing data", `{"email":"a@b.com","password":"Password123!"} {}`, "invalid_json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := httptest.NewRequest(http.MethodPost, "/register/", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			env.auth.Register(rr, req)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.code, errCode(t, rr))
		})
	}
}

func TestVerifyEmail_Flow(t *testing.T) {
	env := newTestEnv(t)
	id := env.register(t, "a@b.com", goodPassword)
	token := env.pub.lastToken(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/verify/?token="+url.QueryEscape(token), nil)
		rr := httptest.NewRecorder()
		env.auth.VerifyEmail(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var msg dto.MessageResponse
		mustReadData(t, rr.Body, &msg)
		assert.Equal(t, "email successfully verified", msg.Message)
	}

	u, err := env.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)
}

func TestVerifyEmail_BadToken_401(t *testing.T) {
	env := newTestEnv(t)
	for _, target := range []string{"/verify/", "/verify/?token=garbage"} {
		rr := httptest.NewRecorder()
		env.auth.VerifyEmail(rr, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusUnauthorized, rr.Code, target)
		assert.Equal(t, "invalid_or_expired_token", errCode(t, rr))
	}
}

func TestToken_LoginWithUsernameField(t *testing.T) {
	env := newTestEnv(t)
	id := env.register(t, "a@b.com", goodPassword)

	rr := httptest.NewRecorder()
	env.auth.Token(rr, formRequest("/token/", url.Values{
		"username": {"a@b.com"},
		"password": {goodPassword},
	}))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var toks dto.TokenResponse
	mustReadData(t, rr.Body, &toks)
	assert.Equal(t, "bearer", toks.TokenType)
	assert.Positive(t, toks.ExpiresIn)

	res := env.tokens.Validate(toks.AccessToken)
	assert.Equal(t, auth.TokenValid, res.Status)
	assert.Equal(t, auth.PurposeAccess, res.Purpose)

	got, err := env.authSvc.Authenticate(context.Background(), toks.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestToken_UniformFailure(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@b.com", goodPassword)

	bodies := map[string]string{}
	for _, email := range []string{"a@b.com", "nobody@b.com"} {
		rr := httptest.NewRecorder()
		env.auth.Token(rr, formRequest("/token/", url.Values{
			"email":    {email},
			"password": {"wrong-password"},
		}))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "invalid_credentials", errCode(t, rr))
		bodies[email] = rr.Body.String()
	}
	assert.Equal(t, bodies["a@b.com"], bodies["nobody@b.com"])
}

func TestToken_MissingPassword_400(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.auth.Token(rr, formRequest("/token/", url.Values{"email": {"a@b.com"}}))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "missing_field", errCode(t, rr))
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@b.com", goodPassword)

	rr := httptest.NewRecorder()
	env.auth.Token(rr, formRequest("/token/", url.Values{"email": {"a@b.com"}, "password": {goodPassword}}))
	require.Equal(t, http.StatusOK, rr.Code)
	var toks dto.TokenResponse
	mustReadData(t, rr.Body, &toks)

	t.Run("refresh token yields a pair", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.auth.Refresh(rr, httptest.NewRequest(http.MethodPost, "/token/refresh/",
			mustJSONBody(t, map[string]string{"refresh_token": toks.RefreshToken})))

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var next dto.TokenResponse
		mustReadData(t, rr.Body, &next)
		assert.NotEmpty(t, next.AccessToken)
		assert.NotEmpty(t, next.RefreshToken)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.auth.Refresh(rr, httptest.NewRequest(http.MethodPost, "/token/refresh/",
			mustJSONBody(t, map[string]string{"refresh_token": toks.AccessToken})))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "invalid_or_expired_token", errCode(t, rr))
	})
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	id := env.register(t, "a@b.com", goodPassword)

	rr := httptest.NewRecorder()
	env.auth.Me(rr, withUser(httptest.NewRequest(http.MethodGet, "/users/me/", nil), id))

	require.Equal(t, http.StatusOK, rr.Code)
	var u dto.UserView
	mustReadData(t, rr.Body, &u)
	assert.Equal(t, id, u.ID)

	rr = httptest.NewRecorder()
	env.auth.Me(rr, httptest.NewRequest(http.MethodGet, "/users/me/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func multipartAvatar(t *testing.T, field, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="a.png"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/users/avatar/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestUpdateAvatar(t *testing.T) {
	t.Run("stores image and returns url", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.register(t, "a@b.com", goodPassword)

		rr := httptest.NewRecorder()
		env.auth.UpdateAvatar(rr, withUser(multipartAvatar(t, "file", "", pngHeader), id))

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var u dto.UserView
		mustReadData(t, rr.Body, &u)
		require.NotNil(t, u.AvatarURL)
		assert.Equal(t, "http://cdn.test/avatars/1/a.png", *u.AvatarURL)
		assert.Equal(t, "image/png", env.avatars.got.ContentType)
	})

	t.Run("too large is 413", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.register(t, "a@b.com", goodPassword)

		big := bytes.Repeat([]byte{'x'}, 2048)
		rr := httptest.NewRecorder()
		env.auth.UpdateAvatar(rr, withUser(multipartAvatar(t, "file", "image/png", big), id))

		require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		assert.Equal(t, "file_too_large", errCode(t, rr))
		assert.Zero(t, env.avatars.n)
	})

	t.Run("missing file part", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.register(t, "a@b.com", goodPassword)

		rr := httptest.NewRecorder()
		env.auth.UpdateAvatar(rr, withUser(multipartAvatar(t, "other", "image/png", pngHeader), id))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "missing_field", errCode(t, rr))
	})

	t.Run("non image rejected", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.register(t, "a@b.com", goodPassword)

		rr := httptest.NewRecorder()
		env.auth.UpdateAvatar(rr, withUser(multipartAvatar(t, "file", "text/plain", []byte("hello")), id))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "invalid_field", errCode(t, rr))
	})
}
