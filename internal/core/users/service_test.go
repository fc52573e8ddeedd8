package users

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"Vidora/internal/core/blobs"
	"Vidora/internal/core/images"
)

type fakeRepo struct {
	byID    map[string]*User
	touched map[string]time.Time
	resets  map[string]ResetCode
	mu      sync.Mutex
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[string]*User),
		touched: make(map[string]time.Time),
		resets:  make(map[string]ResetCode),
	}
}

func (r *fakeRepo) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, ErrEmailTaken
		}
	}
	copied := *user
	r.byID[user.ID] = &copied
	return &copied, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touched[id] = at
	return nil
}

func (r *fakeRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[id]
	return ok, nil
}

func (r *fakeRepo) SetResetCode(ctx context.Context, id, codeHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrUserNotFound
	}
	r.resets[id] = ResetCode{CodeHash: codeHash, ExpiresAt: expiresAt}
	return nil
}

func (r *fakeRepo) GetResetCode(ctx context.Context, id string) (*ResetCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.resets[id]
	if !ok {
		return nil, ErrInvalidResetCode
	}
	return &code, nil
}

func (r *fakeRepo) CompletePasswordReset(ctx context.Context, id, codeHash, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.resets[id]
	if !ok || code.CodeHash != codeHash {
		return ErrInvalidResetCode
	}
	delete(r.resets, id)
	r.byID[id].PasswordHash = passwordHash
	return nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	err  error
	sent []sentMail
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// code returns the reset code from the last mail sent
func (m *fakeMailer) code(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.sent)
	body := m.sent[len(m.sent)-1].body
	require.True(t, strings.HasPrefix(body, "Your password reset code is: "))
	return strings.TrimPrefix(body, "Your password reset code is: ")
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID string) (string, error) {
	return "token-for-" + userID, nil
}

type fakeStore struct {
	keys []string
	err  error
}

func (s *fakeStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return "https://f000.backblazeb2.com/file/bucket/" + key, nil
}

func (s *fakeStore) SignURL(ctx context.Context, fileURL string, ttl time.Duration) (string, error) {
	return fileURL + "?signed", nil
}

type fakeProcessor struct {
	err error
}

func (p fakeProcessor) Process(data []byte, preset images.Preset) ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	return data, nil
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo, store *fakeStore, proc fakeProcessor) Service {
	return NewService(repo, fakeTokens{}, store, proc, &fakeMailer{}, nil,
		WithClock(func() time.Time { return fixedNow }),
		WithBcryptCost(bcrypt.MinCost))
}

// newResetTestService returns a service whose clock reads *now on every call
func newResetTestService(repo *fakeRepo, mailer *fakeMailer, now *time.Time) Service {
	return NewService(repo, fakeTokens{}, &fakeStore{}, fakeProcessor{}, mailer, nil,
		WithClock(func() time.Time { return *now }),
		WithBcryptCost(bcrypt.MinCost))
}

func validSignup() SignupRequest {
	return SignupRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com ",
		Password:  "engines",
	}
}

func TestSignup_CreatesUserAndToken(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeStore{}, fakeProcessor{})

	result, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.Equal(t, "token-for-"+result.User.ID, result.Token)
	assert.Equal(t, fixedNow, result.User.JoinedAt)
	assert.NotEqual(t, "engines", result.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("engines")))
	assert.Nil(t, result.User.ChannelID)
}

func TestSignup_UploadsProfilePicture(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(newFakeRepo(), store, fakeProcessor{})

	req := validSignup()
	req.ProfileImage = &blobs.File{Name: "me.png", ContentType: "image/png", Data: []byte{1, 2, 3}}

	result, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, store.keys, 1)
	assert.Equal(t, "profile_pictures/ada@example.com/1709294400000-me.jpg", store.keys[0])
	assert.Equal(t, "https://f000.backblazeb2.com/file/bucket/"+store.keys[0], result.User.ProfilePictureURL)
}

func TestSignup_BadProfilePictureIsValidationError(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeStore{}, fakeProcessor{err: images.ErrUnsupportedFormat})

	req := validSignup()
	req.ProfileImage = &blobs.File{Name: "me.gif", Data: []byte("GIF89a")}

	_, err := svc.Signup(context.Background(), req)
	assert.True(t, IsValidationError(err))
}

func TestSignup_StorageFailurePropagates(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeStore{err: blobs.ErrStorageUnavailable}, fakeProcessor{})

	req := validSignup()
	req.ProfileImage = &blobs.File{Name: "me.png", Data: []byte{1}}

	_, err := svc.Signup(context.Background(), req)
	assert.ErrorIs(t, err, blobs.ErrStorageUnavailable)
}

func TestSignup_Validation(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeStore{}, fakeProcessor{})

	tests := []struct {
		name   string
		mutate func(*SignupRequest)
	}{
		{"missing first name", func(r *SignupRequest) { r.FirstName = "  " }},
		{"missing email", func(r *SignupRequest) { r.Email = "" }},
		{"malformed email", func(r *SignupRequest) { r.Email = "not-an-email" }},
		{"email without dotted domain", func(r *SignupRequest) { r.Email = "a@localhost" }},
		{"display name form", func(r *SignupRequest) { r.Email = "Ada <ada@example.com>" }},
		{"short password", func(r *SignupRequest) { r.Password = "abc" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)
			_, err := svc.Signup(context.Background(), req)
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "got %v", err)
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeStore{}, fakeProcessor{})

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), validSignup())
	assert.True(t, IsConflict(err))
}

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeStore{}, fakeProcessor{})

	signed, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), LoginRequest{Email: "ADA@example.com", Password: "engines"})
	require.NoError(t, err)
	assert.Equal(t, signed.User.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, fixedNow, repo.touched[signed.User.ID])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeStore{}, fakeProcessor{})

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	assert.True(t, IsUnauthorized(err))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "engines"})
	assert.True(t, IsUnauthorized(err))

	_, err = svc.Login(context.Background(), LoginRequest{})
	assert.True(t, IsValidationError(err))
}

func TestMe(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeStore{}, fakeProcessor{})

	signed, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	me, err := svc.Me(context.Background(), signed.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.FirstName)

	_, err = svc.Me(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestRequestPasswordReset_MailsHashedCode(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	now := fixedNow
	svc := newResetTestService(repo, mailer, &now)

	signed, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	err = svc.RequestPasswordReset(context.Background(), PasswordResetRequest{Email: " ADA@example.com"})
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ada@example.com", mailer.sent[0].to)
	assert.Equal(t, "Password Reset Code", mailer.sent[0].subject)

	code := mailer.code(t)
	n, err := strconv.Atoi(code)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 100000)
	assert.LessOrEqual(t, n, 999999)

	stored := repo.resets[signed.User.ID]
	assert.NotEqual(t, code, stored.CodeHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.CodeHash), []byte(code)))
	assert.Equal(t, fixedNow.Add(10*time.Minute), stored.ExpiresAt)
}

func TestRequestPasswordReset_Errors(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		mailer := &fakeMailer{}
		now := fixedNow
		svc := newResetTestService(newFakeRepo(), mailer, &now)

		err := svc.RequestPasswordReset(context.Background(), PasswordResetRequest{Email: "nobody@example.com"})
		assert.True(t, IsNotFound(err))
		assert.Empty(t, mailer.sent)
	})

	t.Run("missing email", func(t *testing.T) {
		now := fixedNow
		svc := newResetTestService(newFakeRepo(), &fakeMailer{}, &now)

		err := svc.RequestPasswordReset(context.Background(), PasswordResetRequest{})
		assert.True(t, IsValidationError(err))
	})

	t.Run("mail failure", func(t *testing.T) {
		now := fixedNow
		svc := newResetTestService(newFakeRepo(), &fakeMailer{err: errors.New("relay down")}, &now)

		_, err := svc.Signup(context.Background(), validSignup())
		require.NoError(t, err)

		err = svc.RequestPasswordReset(context.Background(), PasswordResetRequest{Email: "ada@example.com"})
		assert.ErrorIs(t, err, ErrMailUnavailable)
	})
}

func TestResetPassword_ChangesPassword(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	now := fixedNow
	svc := newResetTestService(repo, mailer, &now)

	signed, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	require.NoError(t, svc.RequestPasswordReset(context.Background(), PasswordResetRequest{Email: "ada@example.com"}))

	now = fixedNow.Add(9 * time.Minute)
	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Email:       "ada@example.com",
		Code:        mailer.code(t),
		NewPassword: "difference-engine",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "engines"})
	assert.True(t, IsUnauthorized(err))

	result, err := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "difference-engine"})
	require.NoError(t, err)
	assert.Equal(t, signed.User.ID, result.User.ID)

	// The code is cleared once redeemed
	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Email:       "ada@example.com",
		Code:        mailer.code(t),
		NewPassword: "another-one",
	})
	assert.True(t, IsInvalidResetCode(err))
}

func TestResetPassword_ExpiredCode(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	now := fixedNow
	svc := newResetTestService(repo, mailer, &now)

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	require.NoError(t, svc.RequestPasswordReset(context.Background(), PasswordResetRequest{Email: "ada@example.com"}))

	now = fixedNow.Add(ResetCodeTTL)
	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Email:       "ada@example.com",
		Code:        mailer.code(t),
		NewPassword: "difference-engine",
	})
	assert.True(t, IsInvalidResetCode(err))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "engines"})
	assert.NoError(t, err)
}

func TestResetPassword_Rejections(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	now := fixedNow
	svc := newResetTestService(repo, mailer, &now)

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	// No reset requested yet
	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Email: "ada@example.com", Code: "123456", NewPassword: "difference-engine",
	})
	assert.True(t, IsInvalidResetCode(err))

	require.NoError(t, svc.RequestPasswordReset(context.Background(), PasswordResetRequest{Email: "ada@example.com"}))
	code := mailer.code(t)
	wrong := "100000"
	if code == wrong {
		wrong = "100001"
	}

	tests := []struct {
		check func(error) bool
		name  string
		req   ResetPasswordRequest
	}{
		{
			name:  "wrong code",
			req:   ResetPasswordRequest{Email: "ada@example.com", Code: wrong, NewPassword: "difference-engine"},
			check: IsInvalidResetCode,
		},
		{
			name:  "unknown email",
			req:   ResetPasswordRequest{Email: "nobody@example.com", Code: code, NewPassword: "difference-engine"},
			check: IsNotFound,
		},
		{
			name:  "short password",
			req:   ResetPasswordRequest{Email: "ada@example.com", Code: code, NewPassword: "abc"},
			check: IsValidationError,
		},
		{
			name:  "malformed code",
			req:   ResetPasswordRequest{Email: "ada@example.com", Code: "12ab", NewPassword: "difference-engine"},
			check: IsValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ResetPassword(context.Background(), tt.req)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}

	// The valid code still works after the rejected attempts
	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Email: "ada@example.com", Code: code, NewPassword: "difference-engine",
	})
	assert.NoError(t, err)
}
