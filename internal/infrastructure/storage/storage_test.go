package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisk_PutCreatesDirectoriesLazily(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	d := NewDisk(root, "")

	n, err := d.Put(context.Background(), "avatars/1-me.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.EqualValues(t, 9, n)

	b, err := os.ReadFile(filepath.Join(root, "avatars", "1-me.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))
	assert.Equal(t, "/uploads/avatars/1-me.png", d.URL("avatars/1-me.png"))
}

type failingReader struct{ sent bool }

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "partial"), nil
	}
	return 0, errors.New("stream broke")
}

func TestDisk_PutLeavesNothingOnStreamError(t *testing.T) {
	root := t.TempDir()
	d := NewDisk(root, "/uploads")

	_, err := d.Put(context.Background(), "resumes/1-cv.pdf", &failingReader{}, 0, "application/pdf")
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "resumes"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDisk_RejectsTraversalAndRemoves(t *testing.T) {
	d := NewDisk(t.TempDir(), "/uploads")
	ctx := context.Background()

	_, err := d.Put(ctx, "../escape.txt", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)

	_, err = d.Put(ctx, "avatars/a.png", strings.NewReader("x"), 1, "image/png")
	require.NoError(t, err)
	require.NoError(t, d.Remove(ctx, "avatars/a.png"))
	assert.NoError(t, d.Remove(ctx, "avatars/a.png"))
}

type fakeObjects struct {
	put    *s3.PutObjectInput
	body   string
	delKey string
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delKey = *in.Key
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3_PutAndRemove(t *testing.T) {
	fake := &fakeObjects{}
	s := newS3(fake, "jobboard", "http://localhost:9000/jobboard/")
	ctx := context.Background()

	n, err := s.Put(ctx, "avatars/1-me.png", strings.NewReader("img"), 3, "image/png")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	require.NotNil(t, fake.put)
	assert.Equal(t, "jobboard", *fake.put.Bucket)
	assert.Equal(t, "avatars/1-me.png", *fake.put.Key)
	assert.EqualValues(t, 3, *fake.put.ContentLength)
	assert.Equal(t, "img", fake.body)
	assert.Equal(t, "http://localhost:9000/jobboard/avatars/1-me.png", s.URL("avatars/1-me.png"))

	require.NoError(t, s.Remove(ctx, "avatars/1-me.png"))
	assert.Equal(t, "avatars/1-me.png", fake.delKey)
}

func TestS3_StreamErrorSkipsPut(t *testing.T) {
	fake := &fakeObjects{}
	s := newS3(fake, "jobboard", "")

	_, err := s.Put(context.Background(), "avatars/x.png", &failingReader{}, 0, "image/png")
	require.Error(t, err)
	assert.Nil(t, fake.put)
	assert.Equal(t, "s3://jobboard/avatars/x.png", s.URL("avatars/x.png"))
}
