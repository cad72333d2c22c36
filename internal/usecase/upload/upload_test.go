package upload

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"jobboard/internal/infrastructure/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiskService(t *testing.T, maxBytes int64) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	return NewService(storage.NewDisk(root, "/uploads"), maxBytes, nil), root
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	_ = filepath.WalkDir(root, func(_ string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func TestAccept_AvatarStored(t *testing.T) {
	svc, root := newDiskService(t, 0)

	f, err := svc.Accept(context.Background(), Input{
		Field:       FieldAvatar,
		FileName:    "My Photo.PNG",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("abcd"),
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d+-my-photo\.png$`), f.Name)
	assert.Equal(t, "avatars/"+f.Name, f.Key)
	assert.Equal(t, "/uploads/avatars/"+f.Name, f.Path)
	assert.EqualValues(t, 4, f.Size)

	b, err := os.ReadFile(filepath.Join(root, "avatars", f.Name))
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(b))
}

func TestAccept_ResumeAllowsPDF(t *testing.T) {
	svc, root := newDiskService(t, 0)

	f, err := svc.Accept(context.Background(), Input{Field: FieldResume, FileName: "cv.pdf", ContentType: "application/pdf", Body: strings.NewReader("%PDF")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(f.Key, "resumes/"))
	assert.Equal(t, 1, countFiles(t, root))
}

func TestAccept_DisallowedTypeWritesNothing(t *testing.T) {
	svc, root := newDiskService(t, 0)
	ctx := context.Background()

	_, err := svc.Accept(ctx, Input{Field: FieldAvatar, FileName: "cv.pdf", ContentType: "application/pdf", Body: strings.NewReader("%PDF")})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.ErrorIs(t, err, ErrRejected)

	_, err = svc.Accept(ctx, Input{Field: FieldResume, FileName: "x.exe", ContentType: "application/x-msdownload", Body: strings.NewReader("MZ")})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	assert.Zero(t, countFiles(t, root))
}

func TestAccept_DeclaredSizeOverLimit(t *testing.T) {
	svc, root := newDiskService(t, 10)

	_, err := svc.Accept(context.Background(), Input{Field: FieldAvatar, FileName: "a.gif", ContentType: "image/gif", Size: 11, Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Zero(t, countFiles(t, root))
}

func TestAccept_StreamPastLimitRemovesPartialFile(t *testing.T) {
	svc, root := newDiskService(t, 10)

	_, err := svc.Accept(context.Background(), Input{
		Field:       FieldAvatar,
		FileName:    "big.jpg",
		ContentType: "image/jpeg; charset=binary",
		Body:        bytes.NewReader(bytes.Repeat([]byte("x"), 64)),
	})
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Zero(t, countFiles(t, root))
}

func TestAccept_ExactlyAtLimit(t *testing.T) {
	svc, _ := newDiskService(t, 10)

	f, err := svc.Accept(context.Background(), Input{Field: FieldAvatar, FileName: "a.png", ContentType: "image/png", Body: bytes.NewReader(bytes.Repeat([]byte("x"), 10))})
	require.NoError(t, err)
	assert.EqualValues(t, 10, f.Size)
}

func TestRemove(t *testing.T) {
	svc, root := newDiskService(t, 0)
	ctx := context.Background()

	f, err := svc.Accept(ctx, Input{Field: FieldAvatar, FileName: "a.png", ContentType: "image/png", Body: strings.NewReader("x")})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, f))
	assert.Zero(t, countFiles(t, root))
	assert.NoError(t, svc.Remove(ctx, StoredFile{}))
}

func TestStoredName_MonotonicAndSanitized(t *testing.T) {
	svc := NewService(nil, 0, nil)
	svc.nowMilli = func() int64 { return 1700000000000 }

	assert.Equal(t, "1700000000000-passwd", svc.StoredName("../../etc/passwd"))
	assert.Equal(t, "1700000000001-file.png", svc.StoredName(".PNG"))
	assert.Equal(t, "1700000000002-cafe-menu.jpg", svc.StoredName(`C:\photos\Café Menu.JPG`))
	assert.Equal(t, "1700000000003-file", svc.StoredName(""))

	long := strings.Repeat("a", 200) + ".gif"
	name := svc.StoredName(long)
	assert.Equal(t, "1700000000004-"+strings.Repeat("a", maxStemLength)+".gif", name)
}

func TestStoredName_UniqueUnderConcurrency(t *testing.T) {
	svc := NewService(nil, 0, nil)
	svc.nowMilli = func() int64 { return 42 }

	var (
		mu    sync.Mutex
		seen  = map[string]bool{}
		wg    sync.WaitGroup
		total = 50
	)
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := svc.StoredName("same.png")
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, total)
}

var _ io.Reader = (*limitedReader)(nil)
