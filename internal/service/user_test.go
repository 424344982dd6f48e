package service

import (
	"context"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/kejiahp/QRcode-event-manager/internal/model"

	"github.com/stretchr/testify/require"
)

func TestSignUp(t *testing.T) {
	t.Parallel()

	t.Run("creates an active user with a hashed password", func(t *testing.T) {
		e := newTestEnv(t)

		u, err := e.users.SignUp(context.Background(), SignUpInput{
			Email:    " Org@Example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		require.Equal(t, "org@example.com", u.Email)
		require.True(t, u.IsActive)
		require.Len(t, u.ID, 16)
		require.NotEqual(t, "password123", u.HashedPassword)
	})

	t.Run("respects activation setting", func(t *testing.T) {
		e := newTestEnv(t)
		e.cfg.Auth.ActivateOnSignup = false

		u := e.user(t, "org@example.com")
		require.False(t, u.IsActive)

		_, _, err := e.users.Login(context.Background(), LoginInput{Email: "org@example.com", Password: "password123"})
		require.ErrorIs(t, err, ErrUserInactive)
	})

	t.Run("email can only be registered once", func(t *testing.T) {
		e := newTestEnv(t)
		e.user(t, "org@example.com")

		_, err := e.users.SignUp(context.Background(), SignUpInput{
			Email:    "ORG@example.com",
			Password: "password123",
		})
		require.ErrorIs(t, err, ErrEmailTaken)
		require.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		e := newTestEnv(t)

		for _, in := range []SignUpInput{
			{Email: "", Password: "password123"},
			{Email: "nope", Password: "password123"},
			{Email: "org@example.com", Password: "short"},
			{Email: "org@example.com", Password: "this password is far too long to be accepted"},
		} {
			_, err := e.users.SignUp(context.Background(), in)
			require.Equal(t, KindValidationFailure, KindOf(err), "input %+v", in)
		}
	})
}

func TestLoginAndAuthenticate(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	registered := e.user(t, "org@example.com")

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := e.users.Login(context.Background(), LoginInput{Email: "org@example.com", Password: "password124"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := e.users.Login(context.Background(), LoginInput{Email: "who@example.com", Password: "password123"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("token resolves back to the user", func(t *testing.T) {
		u, token, err := e.users.Login(context.Background(), LoginInput{Email: "ORG@example.com", Password: "password123"})
		require.NoError(t, err)
		require.Equal(t, registered.ID, u.ID)
		require.NotEmpty(t, token)

		got, err := e.users.Authenticate(context.Background(), token)
		require.NoError(t, err)
		require.Equal(t, registered.ID, got.ID)
	})

	t.Run("missing and garbage tokens", func(t *testing.T) {
		_, err := e.users.Authenticate(context.Background(), "")
		require.ErrorIs(t, err, ErrMissingToken)

		_, err = e.users.Authenticate(context.Background(), "not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
		require.Equal(t, KindUnauthorized, KindOf(err))
	})

	t.Run("token of a deleted user", func(t *testing.T) {
		ghost := e.user(t, "ghost@example.com")
		_, token, err := e.users.Login(context.Background(), LoginInput{Email: ghost.Email, Password: "password123"})
		require.NoError(t, err)

		require.NoError(t, e.db.Where("id = ?", ghost.ID).Delete(&model.User{}).Error)

		_, err = e.users.Authenticate(context.Background(), token)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

var resetKeyRe = regexp.MustCompile(`key=([A-Za-z0-9%_\-]+)`)

func resetKeyFromMail(t *testing.T, m sentMail) string {
	t.Helper()

	match := resetKeyRe.FindStringSubmatch(m.HTML)
	require.Len(t, match, 2, "no reset link in mail")

	key, err := url.QueryUnescape(match[1])
	require.NoError(t, err)

	return key
}

func TestPasswordReset(t *testing.T) {
	t.Parallel()

	t.Run("key resets the password once", func(t *testing.T) {
		e := newTestEnv(t)
		e.user(t, "org@example.com")

		require.NoError(t, e.users.RequestPasswordReset(context.Background(), "org@example.com"))

		mail := e.mailer.last(t)
		require.Equal(t, "org@example.com", mail.To)
		require.Contains(t, mail.HTML, "http://test.local/auth/password-reset?key=")
		require.Contains(t, mail.HTML, "30 minutes")

		key := resetKeyFromMail(t, mail)

		require.NoError(t, e.users.ResetPassword(context.Background(), key, "brand-new-password"))

		_, _, err := e.users.Login(context.Background(), LoginInput{Email: "org@example.com", Password: "password123"})
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, _, err = e.users.Login(context.Background(), LoginInput{Email: "org@example.com", Password: "brand-new-password"})
		require.NoError(t, err)

		err = e.users.ResetPassword(context.Background(), key, "another-password")
		require.ErrorIs(t, err, ErrResetKeyInvalid)
	})

	t.Run("unknown email is silently ignored", func(t *testing.T) {
		e := newTestEnv(t)

		require.NoError(t, e.users.RequestPasswordReset(context.Background(), "who@example.com"))
		require.Empty(t, e.mailer.sent)
	})

	t.Run("expired key is rejected", func(t *testing.T) {
		e := newTestEnv(t)
		u := e.user(t, "org@example.com")

		require.NoError(t, e.users.RequestPasswordReset(context.Background(), u.Email))
		key := resetKeyFromMail(t, e.mailer.last(t))

		err := e.db.Model(model.User{}).
			Where("id = ?", u.ID).
			Update("password_reset_expires_at", time.Now().Add(-time.Minute)).
			Error
		require.NoError(t, err)

		err = e.users.ResetPassword(context.Background(), key, "brand-new-password")
		require.ErrorIs(t, err, ErrResetKeyInvalid)
	})

	t.Run("mail failure is reported", func(t *testing.T) {
		e := newTestEnv(t)
		e.user(t, "org@example.com")
		e.mailer.err = errBoom

		err := e.users.RequestPasswordReset(context.Background(), "org@example.com")
		require.ErrorIs(t, err, ErrResetMailFailure)
		require.Equal(t, KindDependencyFailure, KindOf(err))
	})
}
