package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/maya-cli/internal/client/client"
	"github.com/dmitrijs2005/maya-cli/internal/client/models"
	"github.com/dmitrijs2005/maya-cli/internal/client/token"
	"github.com/dmitrijs2005/maya-cli/internal/logging"
)

// stubPrompts replaces the interactive input seams: getSimpleText pops
// answers from texts in order (returning "" when they run out), and
// getPassword hands out a fresh copy of pw so handlers may wipe it.
func stubPrompts(t *testing.T, pw []byte, texts ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(texts) {
			return "", nil
		}
		s := texts[i]
		i++
		return s, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), pw...), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

// signedToken mints an unvalidated HS256 token for claim-decoding tests.
func signedToken(t *testing.T, email, userID string, exp time.Time) string {
	t.Helper()
	claims := token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: userID,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

type fakeAuth struct {
	// Register
	regEmail string
	regPass  string
	regRet   models.Record
	regErr   error

	// Login
	loginEmail string
	loginPass  string
	loginRet   models.Record
	loginErr   error

	// StoreTokens
	stored   models.Record
	storeErr error

	// CurrentUser
	current    models.Record
	currentErr error

	// UpdateProfile
	updateCalled bool
	updateIn     models.Record
	updateRet    models.Record
	updateErr    error

	// Logout
	logoutCalled bool
	logoutErr    error

	// SendOTP
	sendOTPEmail string
	sendOTPErr   error

	// VerifyOTP
	verifyEmail string
	verifyCode  string
	verifyRet   models.Record
	verifyErr   error

	// CompleteRegistration
	completeReq client.CompleteRegistrationRequest
	completeRet models.Record
	completeErr error

	// UpdatePassword
	updPwEmail string
	updPwPass  string
	updPwErr   error

	// EmailAvailable
	availEmail string
	availRet   bool
	availErr   error

	// Me
	meRet models.Record
	meErr error

	pingErr  error
	closeErr error
}

func (f *fakeAuth) Register(_ context.Context, email, password string) (models.Record, error) {
	f.regEmail, f.regPass = email, password
	return f.regRet, f.regErr
}
func (f *fakeAuth) Login(_ context.Context, email, password string) (models.Record, error) {
	f.loginEmail, f.loginPass = email, password
	return f.loginRet, f.loginErr
}
func (f *fakeAuth) StoreTokens(_ context.Context, tokens models.Record) error {
	f.stored = tokens
	return f.storeErr
}
func (f *fakeAuth) CurrentUser(context.Context) (models.Record, error) {
	return f.current, f.currentErr
}
func (f *fakeAuth) UpdateProfile(_ context.Context, fields models.Record) (models.Record, error) {
	f.updateCalled, f.updateIn = true, fields
	return f.updateRet, f.updateErr
}
func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	return f.logoutErr
}
func (f *fakeAuth) SendOTP(_ context.Context, email string) (models.Record, error) {
	f.sendOTPEmail = email
	return nil, f.sendOTPErr
}
func (f *fakeAuth) VerifyOTP(_ context.Context, email, otp string) (models.Record, error) {
	f.verifyEmail, f.verifyCode = email, otp
	return f.verifyRet, f.verifyErr
}
func (f *fakeAuth) CompleteRegistration(_ context.Context, req client.CompleteRegistrationRequest) (models.Record, error) {
	f.completeReq = req
	return f.completeRet, f.completeErr
}
func (f *fakeAuth) UpdatePassword(_ context.Context, email, password string) (models.Record, error) {
	f.updPwEmail, f.updPwPass = email, password
	return nil, f.updPwErr
}
func (f *fakeAuth) EmailAvailable(_ context.Context, email string) (bool, error) {
	f.availEmail = email
	return f.availRet, f.availErr
}
func (f *fakeAuth) Me(context.Context) (models.Record, error) { return f.meRet, f.meErr }
func (f *fakeAuth) Ping(context.Context) error                { return f.pingErr }
func (f *fakeAuth) Close(context.Context) error               { return f.closeErr }

func newTestApp(f *fakeAuth) *App {
	return &App{authService: f, log: logging.NewNop()}
}

func TestRegister_Success(t *testing.T) {
	silencePrintln(t)
	f := &fakeAuth{availRet: true, regRet: models.Record{"message": "OTP sent to email"}}
	a := newTestApp(f)

	stubPrompts(t, []byte("secret"), "alice@example.org")

	if err := a.Register(context.Background()); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if f.regEmail != "alice@example.org" {
		t.Fatalf("Register email mismatch: %q", f.regEmail)
	}
	if f.regPass != "secret" {
		t.Fatalf("Register pass mismatch: %q", f.regPass)
	}
	if a.pendingEmail != "alice@example.org" {
		t.Fatalf("pendingEmail not kept: %q", a.pendingEmail)
	}
}

func TestRegister_EmailNotAvailable_SkipsService(t *testing.T) {
	silencePrintln(t)
	f := &fakeAuth{availRet: false}
	a := newTestApp(f)

	stubPrompts(t, []byte("secret"), "taken@example.org")

	if err := a.Register(context.Background()); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if f.availEmail != "taken@example.org" {
		t.Fatalf("availability not checked: %q", f.availEmail)
	}
	if f.regEmail != "" {
		t.Fatalf("Register should not be called, got %q", f.regEmail)
	}
}

func TestRegister_ServiceError(t *testing.T) {
	silencePrintln(t)
	f := &fakeAuth{availRet: true, regErr: client.ErrEmailTaken}
	a := newTestApp(f)

	stubPrompts(t, []byte("secret"), "alice@example.org")

	err := a.Register(context.Background())
	if !errors.Is(err, client.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
	if a.pendingEmail != "" {
		t.Fatalf("pendingEmail should stay empty, got %q", a.pendingEmail)
	}
}

func TestVerify_UsesPendingEmailAsDefault(t *testing.T) {
	silencePrintln(t)
	f := &fakeAuth{verifyRet: models.Record{"is_verified": true}}
	a := newTestApp(f)
	a.pendingEmail = "bob@example.org"

	// first answer accepts the default email, second is the code
	stubPrompts(t, nil, "", "123456")

	if err := a.Verify(context.Background()); err != nil {
		t.Fatalf("Verify err: %v", err)
	}
	if f.verifyEmail != "bob@example.org" {
		t.Fatalf("verify email mismatch: %q", f.verifyEmail)
	}
	if f.verifyCode != "123456" {
		t.Fatalf("verify code mismatch: %q", f.verifyCode)
	}
}

func TestVerify_NoEmailAnywhere_Errors(t *testing.T) {
	silencePrintln(t)
	a := newTestApp(&fakeAuth{})

	stubPrompts(t, nil, "")

	if err := a.Verify(context.Background()); err == nil {
		t.Fatalf("want error when no email can be resolved")
	}
}

func TestComplete_BuildsRequestAndLogsIn(t *testing.T) {
	silencePrintln(t)
	accessToken := signedToken(t, "carol@example.org", "u-77", time.Now().Add(time.Hour))
	f := &fakeAuth{completeRet: models.Record{"access_token": accessToken, "token_type": "bearer"}}
	a := newTestApp(f)
	a.pendingEmail = "carol@example.org"

	// email (default), username, role, hobbies
	stubPrompts(t, []byte("secret"), "", "carol", "admin", "chess, go,")

	if err := a.Complete(context.Background()); err != nil {
		t.Fatalf("Complete err: %v", err)
	}

	req := f.completeReq
	if req.Email != "carol@example.org" || req.Password != "secret" {
		t.Fatalf("unexpected credentials: %+v", req)
	}
	if req.Username != "carol" || req.Role != "admin" {
		t.Fatalf("unexpected profile fields: %+v", req)
	}
	if len(req.Hobbies) != 2 || req.Hobbies[0] != "chess" || req.Hobbies[1] != "go" {
		t.Fatalf("unexpected hobbies: %v", req.Hobbies)
	}

	if f.stored == nil || f.stored.AccessToken() != accessToken {
		t.Fatalf("response record not stored: %+v", f.stored)
	}
	if a.pendingEmail != "" {
		t.Fatalf("pendingEmail not cleared: %q", a.pendingEmail)
	}
	if a.userName != "carol@example.org" {
		t.Fatalf("userName mismatch: %q", a.userName)
	}
	if a.Mode != ModeOnline {
		t.Fatalf("mode not online: %q", a.Mode)
	}
}

func TestLogin_Success_StoresResponseRecord(t *testing.T) {
	silencePrintln(t)
	accessToken := signedToken(t, "alice@example.org", "u-1", time.Now().Add(time.Hour))
	f := &fakeAuth{loginRet: models.Record{"access_token": accessToken, "token_type": "bearer"}}
	a := newTestApp(f)

	stubPrompts(t, []byte("secret"), "alice@example.org")

	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if f.loginEmail != "alice@example.org" || f.loginPass != "secret" {
		t.Fatalf("login args mismatch: %q %q", f.loginEmail, f.loginPass)
	}
	if f.stored.AccessToken() != accessToken {
		t.Fatalf("login response not stored: %+v", f.stored)
	}
	if a.userName != "alice@example.org" {
		t.Fatalf("userName mismatch: %q", a.userName)
	}
	if !a.isLoggedIn() {
		t.Fatalf("expected logged in state")
	}
	if a.Mode != ModeOnline {
		t.Fatalf("mode not online: %q", a.Mode)
	}
}

func TestLogin_UnreadableToken_KeepsEnteredEmail(t *testing.T) {
	silencePrintln(t)
	f := &fakeAuth{loginRet: models.Record{"access_token": "not-a-jwt"}}
	a := newTestApp(f)

	stubPrompts(t, []byte("secret"), "alice@example.org")

	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if a.userName != "alice@example.org" {
		t.Fatalf("userName should fall back to the entered email, got %q", a.userName)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	silencePrintln(t)
	f := &fakeAuth{loginErr: client.ErrUnauthorized}
	a := newTestApp(f)

	stubPrompts(t, []byte("wrong"), "alice@example.org")

	err := a.Login(context.Background())
	if !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if f.stored != nil {
		t.Fatalf("nothing should be stored on failure: %+v", f.stored)
	}
	if a.isLoggedIn() {
		t.Fatalf("must not be logged in after a failed login")
	}
}

func TestLogin_ServerUnavailable_GoesOffline(t *testing.T) {
	silencePrintln(t)
	f := &fakeAuth{loginErr: client.ErrUnavailable}
	a := newTestApp(f)

	stubPrompts(t, []byte("secret"), "alice@example.org")

	if err := a.Login(context.Background()); !errors.Is(err, client.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
	if a.Mode != ModeOffline {
		t.Fatalf("mode should flip to offline, got %q", a.Mode)
	}
}

func TestLogin_StoreFailure_Propagates(t *testing.T) {
	silencePrintln(t)
	f := &fakeAuth{
		loginRet: models.Record{"access_token": "t"},
		storeErr: errors.New("disk full"),
	}
	a := newTestApp(f)

	stubPrompts(t, []byte("secret"), "alice@example.org")

	if err := a.Login(context.Background()); err == nil {
		t.Fatalf("want store error")
	}
}

func TestLogout(t *testing.T) {
	silencePrintln(t)
	f := &fakeAuth{}
	a := newTestApp(f)
	a.userName = "alice@example.org"

	if err := a.Logout(context.Background()); err != nil {
		t.Fatalf("Logout err: %v", err)
	}
	if !f.logoutCalled {
		t.Fatalf("Logout not delegated")
	}
	if a.userName != "" {
		t.Fatalf("userName not cleared: %q", a.userName)
	}
}

func TestLogout_ErrorPropagates(t *testing.T) {
	silencePrintln(t)
	f := &fakeAuth{logoutErr: errors.New("clean-fail")}
	a := newTestApp(f)
	a.userName = "alice@example.org"

	if err := a.Logout(context.Background()); err == nil {
		t.Fatalf("want error from Logout")
	}
	if a.userName == "" {
		t.Fatalf("identity should be kept when the record was not cleared")
	}
}

func TestPasswd_FullFlow(t *testing.T) {
	silencePrintln(t)
	f := &fakeAuth{verifyRet: models.Record{"is_verified": true}}
	a := newTestApp(f)

	// email, then the emailed code
	stubPrompts(t, []byte("new-secret"), "alice@example.org", "654321")

	if err := a.Passwd(context.Background()); err != nil {
		t.Fatalf("Passwd err: %v", err)
	}
	if f.sendOTPEmail != "alice@example.org" {
		t.Fatalf("SendOTP email mismatch: %q", f.sendOTPEmail)
	}
	if f.verifyEmail != "alice@example.org" || f.verifyCode != "654321" {
		t.Fatalf("VerifyOTP args mismatch: %q %q", f.verifyEmail, f.verifyCode)
	}
	if f.updPwEmail != "alice@example.org" || f.updPwPass != "new-secret" {
		t.Fatalf("UpdatePassword args mismatch: %q %q", f.updPwEmail, f.updPwPass)
	}
}

func TestPasswd_BadCode_StopsBeforePasswordChange(t *testing.T) {
	silencePrintln(t)
	f := &fakeAuth{verifyErr: errors.New("invalid or expired OTP")}
	a := newTestApp(f)

	stubPrompts(t, []byte("new-secret"), "alice@example.org", "000000")

	if err := a.Passwd(context.Background()); err == nil {
		t.Fatalf("want verification error")
	}
	if f.updPwEmail != "" {
		t.Fatalf("UpdatePassword must not run after failed verification")
	}
}

func TestSplitList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"chess", []string{"chess"}},
		{"chess, go", []string{"chess", "go"}},
		{"chess,,go, ", []string{"chess", "go"}},
	}
	for _, tc := range cases {
		got := splitList(tc.in)
		if len(got) != len(tc.want) {
			t.Fatalf("splitList(%q) = %v, want %v", tc.in, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("splitList(%q) = %v, want %v", tc.in, got, tc.want)
			}
		}
	}
}
