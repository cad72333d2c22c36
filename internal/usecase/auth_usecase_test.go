package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobboard/internal/infrastructure/persistence/memory"
	"jobboard/internal/infrastructure/storage"
	ucauth "jobboard/internal/usecase/auth"
	"jobboard/internal/usecase/session"
	"jobboard/internal/usecase/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	auth     *Auth
	users    *memory.UserRepository
	sessions *session.Manager
	root     string
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	users := memory.NewUserRepository()
	root := t.TempDir()
	sessions := session.NewManager(session.NewMemoryStore(), users, 0, nil)
	a := NewAuthUsecase(
		ucauth.NewService(users).WithCost(bcrypt.MinCost),
		sessions,
		upload.NewService(storage.NewDisk(root, "/uploads"), 0, nil),
		nil,
	)
	return authFixture{auth: a, users: users, sessions: sessions, root: root}
}

func registration(email string) ucauth.RegisterInput {
	return ucauth.RegisterInput{Name: "Alice", Email: email, Password: "pw123456", ConfirmPassword: "pw123456", Role: "jobseeker"}
}

func pngAvatar() *upload.Input {
	return &upload.Input{Field: upload.FieldAvatar, FileName: "me.png", ContentType: "image/png", Body: strings.NewReader("png")}
}

func filesUnder(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			out = append(out, p)
		}
		return nil
	})
	return out
}

func TestAuth_RegisterWithAvatar(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	u, err := f.auth.Register(ctx, registration("alice@x.com"), pngAvatar())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.Avatar, "/uploads/avatars/"))
	assert.Len(t, filesUnder(t, f.root), 1)
}

func TestAuth_RegisterFailureRemovesAvatar(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, registration("alice@x.com"), nil)
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, registration("ALICE@x.com"), pngAvatar())
	assert.ErrorIs(t, err, ucauth.ErrEmailAlreadyRegistered)
	assert.Empty(t, filesUnder(t, f.root))
}

func TestAuth_RegisterMismatchSkipsUpload(t *testing.T) {
	f := newAuthFixture(t)
	in := registration("alice@x.com")
	in.ConfirmPassword = "different"

	_, err := f.auth.Register(context.Background(), in, pngAvatar())
	assert.ErrorIs(t, err, ucauth.ErrPasswordMismatch)
	assert.Empty(t, filesUnder(t, f.root))

	n, _ := f.users.Count(context.Background())
	assert.Zero(t, n)
}

func TestAuth_RegisterRejectedUploadCreatesNoUser(t *testing.T) {
	f := newAuthFixture(t)
	avatar := &upload.Input{Field: upload.FieldAvatar, FileName: "cv.pdf", ContentType: "application/pdf", Body: strings.NewReader("%PDF")}

	_, err := f.auth.Register(context.Background(), registration("alice@x.com"), avatar)
	assert.ErrorIs(t, err, upload.ErrRejected)

	n, _ := f.users.Count(context.Background())
	assert.Zero(t, n)
	assert.Empty(t, filesUnder(t, f.root))
}

func TestAuth_LoginLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	created, err := f.auth.Register(ctx, registration("alice@x.com"), nil)
	require.NoError(t, err)

	_, _, err = f.auth.Login(ctx, "", "alice@x.com", "nope-nope")
	assert.ErrorIs(t, err, ucauth.ErrInvalidCredentials)

	rec, u, err := f.auth.Login(ctx, "", "Alice@X.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	p, err := f.sessions.ResolveSession(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, p.IsAuthenticated())

	require.NoError(t, f.auth.Logout(ctx, rec.ID))
	p, err = f.sessions.ResolveSession(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, p.IsAuthenticated())
}
