package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"
)

const (
	FieldAvatar = "avatar"
	FieldResume = "resume"

	DefaultMaxBytes int64 = 5 * 1024 * 1024

	maxStemLength = 64
)

var (
	ErrRejected        = errors.New("upload rejected")
	ErrUnsupportedType = fmt.Errorf("%w: unsupported file type", ErrRejected)
	ErrFileTooLarge    = fmt.Errorf("%w: file too large", ErrRejected)
)

var (
	imageTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
	}
	resumeTypes = map[string]bool{
		"image/jpeg":      true,
		"image/jpg":       true,
		"image/png":       true,
		"image/gif":       true,
		"application/pdf": true,
	}
)

// Storage writes an object under key. Implementations must not leave a
// partial object behind when body fails mid-stream.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (int64, error)
	Remove(ctx context.Context, key string) error
	URL(key string) string
}

type Input struct {
	Field       string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type StoredFile struct {
	Key  string
	Name string
	Path string
	Size int64
}

type Service struct {
	storage  Storage
	maxBytes int64
	logger   *log.Logger

	mu       sync.Mutex
	lastMs   int64
	nowMilli func() int64
}

func NewService(storage Storage, maxBytes int64, logger *log.Logger) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Service{
		storage:  storage,
		maxBytes: maxBytes,
		logger:   logger,
		nowMilli: func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// Accept validates in and streams it to storage.
func (s *Service) Accept(ctx context.Context, in Input) (StoredFile, error) {
	dir, allowed := destination(in.Field)
	ct := normalizeContentType(in.ContentType)
	if !allowed[ct] {
		s.logf("[Upload] rejected field=%s type=%q", in.Field, in.ContentType)
		return StoredFile{}, ErrUnsupportedType
	}
	if in.Size > s.maxBytes {
		s.logf("[Upload] rejected field=%s size=%d limit=%d", in.Field, in.Size, s.maxBytes)
		return StoredFile{}, ErrFileTooLarge
	}
	if in.Body == nil {
		return StoredFile{}, fmt.Errorf("%w: empty body", ErrRejected)
	}

	name := s.StoredName(in.FileName)
	key := path.Join(dir, name)

	lr := &limitedReader{r: in.Body, remaining: s.maxBytes}
	n, err := s.storage.Put(ctx, key, lr, in.Size, ct)
	if err != nil {
		if lr.exceeded || errors.Is(err, ErrFileTooLarge) {
			s.logf("[Upload] rejected field=%s streamed past limit=%d", in.Field, s.maxBytes)
			return StoredFile{}, ErrFileTooLarge
		}
		return StoredFile{}, fmt.Errorf("store upload: %w", err)
	}

	s.logf("[Upload] stored key=%s size=%d", key, n)
	return StoredFile{Key: key, Name: name, Path: s.storage.URL(key), Size: n}, nil
}

// Remove deletes a previously stored file, used when the record that was
// meant to reference it could not be created.
func (s *Service) Remove(ctx context.Context, f StoredFile) error {
	if f.Key == "" {
		return nil
	}
	return s.storage.Remove(ctx, f.Key)
}

// StoredName builds "<unix millis>-<stem><ext>". The timestamp never repeats
// within a process so concurrent uploads of the same name do not collide.
func (s *Service) StoredName(original string) string {
	s.mu.Lock()
	ms := s.nowMilli()
	if ms <= s.lastMs {
		ms = s.lastMs + 1
	}
	s.lastMs = ms
	s.mu.Unlock()

	stem, ext := sanitizeFileName(original)
	return fmt.Sprintf("%d-%s%s", ms, stem, ext)
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func destination(field string) (string, map[string]bool) {
	if field == FieldResume {
		return "resumes", resumeTypes
	}
	return "avatars", imageTypes
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

func sanitizeFileName(original string) (string, string) {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}

	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	for _, r := range strings.TrimPrefix(ext, ".") {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	ext = ""
	if b.Len() > 0 {
		ext = "." + b.String()
	}

	stem = slug.Make(stem)
	if len(stem) > maxStemLength {
		stem = strings.TrimRight(stem[:maxStemLength], "-")
	}
	if stem == "" {
		stem = "file"
	}
	return stem, ext
}

type limitedReader struct {
	r         io.Reader
	remaining int64
	exceeded  bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.exceeded {
		return 0, ErrFileTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		l.exceeded = true
		return 0, ErrFileTooLarge
	}
	return n, err
}
