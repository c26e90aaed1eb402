package routers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourdesk/models"
	"tourdesk/utils"
)

var contactBody = map[string]any{
	"name":           "Maria",
	"phone":          "+49 (30) 123-4567",
	"email":          "maria@example.com",
	"message":        "Two adults, first week of May.",
	"recaptchaToken": "token",
}

func TestContact_SendsEmail(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/api/contact", contactBody, nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	mails := s.mailer.mails()
	require.Len(t, mails, 1)
	assert.Equal(t, "office@example.com", mails[0].To)

	assert.Eventually(t, func() bool { return s.notifier.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return s.events.has(utils.EventContactReceived) }, time.Second, 10*time.Millisecond)
}

func TestContact_Failures(t *testing.T) {
	cases := []struct {
		name     string
		setup    func(s *testServer)
		body     map[string]any
		code     int
		mailSent bool
	}{
		{
			name:  "bot check rejected",
			setup: func(s *testServer) { s.verifier.set(false, nil) },
			body:  contactBody,
			code:  http.StatusBadRequest,
		},
		{
			name:  "bot check unreachable",
			setup: func(s *testServer) { s.verifier.set(false, errors.New("timeout")) },
			body:  contactBody,
			code:  http.StatusInternalServerError,
		},
		{
			name:  "email failure",
			setup: func(s *testServer) { s.mailer.err = errors.New("sendgrid down") },
			body:  contactBody,
			code:  http.StatusInternalServerError,
		},
		{
			name:  "invalid phone",
			setup: func(*testServer) {},
			body:  map[string]any{"name": "Maria", "phone": "call me", "email": "maria@example.com"},
			code:  http.StatusBadRequest,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)
			tc.setup(s)

			code, _ := s.do(t, http.MethodPost, "/api/contact", tc.body, nil)
			assert.Equal(t, tc.code, code)
			assert.Empty(t, s.mailer.mails())
			assert.Zero(t, s.notifier.count())
		})
	}
}

func TestContact_RateLimited(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < s.cfg.ContactRateMax; i++ {
		code, _ := s.do(t, http.MethodPost, "/api/contact", contactBody, nil)
		require.Equal(t, http.StatusOK, code)
	}
	code, _ := s.do(t, http.MethodPost, "/api/contact", contactBody, nil)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Len(t, s.mailer.mails(), s.cfg.ContactRateMax)
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)
	admin := sessionFor(t, s.createUser(t, "admin@example.com", models.RoleAdmin))

	body, contentType := multipartFile(t, "file", "My Holiday Photo!.PNG", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := s.send(t, req, admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var env envelope
	require.NoError(t, decodeBody(resp, &env))
	url := decode[map[string]string](t, env.Data)["url"]
	assert.Regexp(t, `^/uploads/[0-9a-f-]{36}-my-holiday-photo\.png$`, url)

	got := s.send(t, httptest.NewRequest(http.MethodGet, url, nil), nil)
	got.Body.Close()
	assert.Equal(t, http.StatusOK, got.StatusCode)
}

func TestUpload_ExtensionFollowsContent(t *testing.T) {
	s := newTestServer(t)
	admin := sessionFor(t, s.createUser(t, "admin@example.com", models.RoleAdmin))

	body, contentType := multipartFile(t, "file", "beach.jpg", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := s.send(t, req, admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var env envelope
	require.NoError(t, decodeBody(resp, &env))
	assert.Regexp(t, `^/uploads/[0-9a-f-]{36}-beach\.png$`, decode[map[string]string](t, env.Data)["url"])
}

func TestUpload_Rejections(t *testing.T) {
	s := newTestServer(t)
	admin := sessionFor(t, s.createUser(t, "admin@example.com", models.RoleAdmin))

	cases := []struct {
		name     string
		filename string
		content  []byte
	}{
		{"script extension", "shell.php", []byte("<?php echo 1;")},
		{"text disguised as png", "notes.png", []byte("just some text")},
		{"too large", "big.png", append(pngBytes(t), make([]byte, 1<<20)...)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := multipartFile(t, "file", tc.filename, tc.content)
			req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
			req.Header.Set("Content-Type", contentType)
			resp := s.send(t, req, admin)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	// Missing file field.
	code, _ := s.do(t, http.MethodPost, "/api/admin/upload", map[string]any{}, admin)
	assert.Equal(t, http.StatusBadRequest, code)

	// Anonymous uploads are refused before the body is looked at.
	body, contentType := multipartFile(t, "file", "a.png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := s.send(t, req, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
