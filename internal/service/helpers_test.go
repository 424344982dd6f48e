package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kejiahp/QRcode-event-manager/config"
	"github.com/kejiahp/QRcode-event-manager/db"
	"github.com/kejiahp/QRcode-event-manager/internal/model"
	"github.com/kejiahp/QRcode-event-manager/pkg/security"
	"github.com/kejiahp/QRcode-event-manager/pkg/util"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var errBoom = errors.New("boom")

type fakeImages struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeImages() *fakeImages {
	return &fakeImages{objects: map[string][]byte{}}
}

func (f *fakeImages) Upload(_ context.Context, name string, data []byte) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.uploadErr != nil {
		return "", "", f.uploadErr
	}

	key := "qrcode_event_manager/" + name
	f.objects[key] = data

	return "https://cdn.test/" + key, key, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.objects, key)
	f.deleted = append(f.deleted, key)

	return nil
}

func (f *fakeImages) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.objects)
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(to, subject, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (f *fakeMailer) last(t *testing.T) sentMail {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(t, f.sent, "no mail was sent")
	return f.sent[len(f.sent)-1]
}

func testConfig() *config.Config {
	return &config.Config{
		Host: config.HostConfig{PublicURL: "http://test.local"},
		JWT:  config.JWTConfig{Secret: "test-secret", TTL: time.Hour},
		Auth: config.AuthConfig{ActivateOnSignup: true, ResetKeyTTL: 30 * time.Minute},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", util.RandStr(12))
	gdb, err := db.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	// One connection serializes access, the in-memory database lives as
	// long as it does
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return gdb
}

type testEnv struct {
	db      *gorm.DB
	cfg     *config.Config
	images  *fakeImages
	mailer  *fakeMailer
	users   *UserService
	events  *EventService
	invites *InviteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	e := &testEnv{
		db:     newTestDB(t),
		cfg:    testConfig(),
		images: newFakeImages(),
		mailer: &fakeMailer{},
	}

	hasher := &security.ArgonHash{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	tokens := security.NewTokenIssuer(e.cfg.JWT.Secret, e.cfg.JWT.TTL)

	e.users = NewUserService(e.db, hasher, tokens, e.mailer, e.cfg)
	e.events = NewEventService(e.db, e.images)
	e.invites = NewInviteService(e.db, e.events, e.images, e.mailer, e.cfg.Host.PublicURL)

	return e
}

func (e *testEnv) user(t *testing.T, email string) *model.User {
	t.Helper()

	u, err := e.users.SignUp(context.Background(), SignUpInput{Email: email, Password: "password123"})
	require.NoError(t, err)

	return u
}

func (e *testEnv) event(t *testing.T, owner *model.User, name string) *model.Event {
	t.Helper()

	start := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	ev, err := e.events.Create(context.Background(), owner, EventInput{
		Name:        name,
		Description: "An event called " + strings.ToLower(name),
		StartDate:   start,
		EndDate:     start.Add(4 * time.Hour),
	})
	require.NoError(t, err)

	return ev
}

func (e *testEnv) invite(t *testing.T, owner *model.User, ev *model.Event, email string) *model.Invite {
	t.Helper()

	inv, err := e.invites.Create(context.Background(), owner, ev.ID, CreateInviteInput{
		Email:    email,
		Fullname: "Guest " + email,
	})
	require.NoError(t, err)

	return inv
}
