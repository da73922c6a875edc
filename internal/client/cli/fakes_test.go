package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
)

type fakeAuth struct {
	email string

	restoreEmail string
	restoreErr   error

	regEmail, regPass string
	loginPass         string
	authErr           error

	forgotEmail string
	resetCode   string
	resetPass   string
	resetErr    error

	identity  *client.Identity
	whoAmIErr error

	pingErr error

	logoutCalled bool
	logoutErr    error
	closed       bool
}

func (f *fakeAuth) Restore(context.Context) (string, error) {
	if f.restoreErr != nil {
		return "", f.restoreErr
	}
	f.email = f.restoreEmail
	return f.restoreEmail, nil
}

func (f *fakeAuth) Register(_ context.Context, email, password string) (*client.Session, error) {
	f.regEmail, f.regPass = email, password
	if f.authErr != nil {
		return nil, f.authErr
	}
	f.email = email
	return &client.Session{Token: "tok", UserID: "u-1", Email: email}, nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*client.Session, error) {
	f.loginPass = password
	if f.authErr != nil {
		return nil, f.authErr
	}
	f.email = email
	return &client.Session{Token: "tok", UserID: "u-1", Email: email}, nil
}

func (f *fakeAuth) ForgotPassword(_ context.Context, email string) error {
	f.forgotEmail = email
	return f.resetErr
}

func (f *fakeAuth) ResetPassword(_ context.Context, email, code, newPassword string) error {
	f.resetCode, f.resetPass = code, newPassword
	return f.resetErr
}

func (f *fakeAuth) WhoAmI(context.Context) (*client.Identity, error) {
	return f.identity, f.whoAmIErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	if f.logoutErr == nil {
		f.email = ""
	}
	return f.logoutErr
}

func (f *fakeAuth) Email() string                   { return f.email }
func (f *fakeAuth) Ping(context.Context) error      { return f.pingErr }
func (f *fakeAuth) Close(ctx context.Context) error { f.closed = true; return nil }

// newTestApp returns an App reading input from lines and writing to the
// returned buffer.
func newTestApp(f *fakeAuth, lines ...string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	in := strings.Join(lines, "\n")
	if len(lines) > 0 {
		in += "\n"
	}
	return &App{authService: f, reader: bufio.NewReader(strings.NewReader(in)), out: out}, out
}

// stubPassword makes getPassword return pw for every prompt.
func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(string, io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}
