package routers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tourdesk/config"
	"tourdesk/database"
	"tourdesk/middleware"
	"tourdesk/models"
	"tourdesk/repository"
	"tourdesk/utils"
)

const (
	testSecret   = "routers-test-secret-0123456789"
	testPassword = "password123"
	// 1x1 transparent PNG.
	pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
)

var dbSeq atomic.Int64

type fakeVerifier struct {
	mu  sync.Mutex
	ok  bool
	err error
}

func (f *fakeVerifier) Verify(context.Context, string, string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ok, f.err
}

func (f *fakeVerifier) set(ok bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ok, f.err = ok, err
}

type sentMail struct {
	To      string
	Subject string
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject})
	return nil
}

func (m *fakeMailer) mails() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Notify(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

type fakeEvents struct {
	mu   sync.Mutex
	keys []string
}

func (e *fakeEvents) Publish(_ context.Context, key string, _ any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.keys = append(e.keys, key)
	return nil
}

func (e *fakeEvents) Close() {}

func (e *fakeEvents) has(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, k := range e.keys {
		if k == key {
			return true
		}
	}
	return false
}

type testServer struct {
	app      *fiber.App
	db       *gorm.DB
	cfg      *config.Config
	users    repository.UserRepository
	verifier *fakeVerifier
	mailer   *fakeMailer
	notifier *fakeNotifier
	events   *fakeEvents
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.OpenMemory(fmt.Sprintf("routers_%d", dbSeq.Add(1)))
	require.NoError(t, err)

	public := t.TempDir()
	cfg := &config.Config{
		SessionSecret:    testSecret,
		SaltRound:        bcrypt.MinCost,
		CORSOrigins:      "*",
		PublicDir:        public,
		UploadDir:        filepath.Join(public, "uploads"),
		UploadMaxBytes:   1 << 20,
		ContactRecipient: "office@example.com",
		ContactRateMax:   3,
	}

	s := &testServer{
		db:       db,
		cfg:      cfg,
		users:    repository.NewUserRepository(db),
		verifier: &fakeVerifier{ok: true},
		mailer:   &fakeMailer{},
		notifier: &fakeNotifier{},
		events:   &fakeEvents{},
	}
	s.app = NewApp(Dependencies{
		Config:   cfg,
		Users:    s.users,
		Tours:    repository.NewTourRepository(db),
		Reviews:  repository.NewReviewRepository(db),
		Logins:   repository.NewLoginTrackingRepository(db),
		Verifier: s.verifier,
		Mailer:   s.mailer,
		Notifier: s.notifier,
		Events:   s.events,
	})
	return s
}

func (s *testServer) createUser(t *testing.T, email string, role models.Role) *models.AdminUser {
	t.Helper()
	hash, err := utils.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.AdminUser{Name: "Test User", Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, s.users.Create(context.Background(), user))
	return user
}

func sessionFor(t *testing.T, user *models.AdminUser) *http.Cookie {
	t.Helper()
	token, err := middleware.GenerateSessionToken(user, testSecret, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) send(t *testing.T, req *http.Request, cookie *http.Cookie) *http.Response {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// do sends body as JSON and decodes the response envelope.
func (s *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp := s.send(t, req, cookie)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(pixelPNG)
	require.NoError(t, err)
	return data
}

func multipartFile(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(resp *http.Response, v any) error {
	return json.NewDecoder(resp.Body).Decode(v)
}
