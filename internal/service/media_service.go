package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/paperprep/paperprep-backend/internal/config"
	"github.com/rs/zerolog"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Question images are stored under UploadDir/<folder>/ and served from
// /uploads/<folder>/<file>.
const (
	mediaURLPrefix    = "/uploads/"
	defaultMediaGroup = "misc"
)

var mediaFolderPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaService stores question images on local disk.
type MediaService struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config, log zerolog.Logger) *MediaService {
	return &MediaService{
		cfg: cfg,
		log: log.With().Str("component", "media_service").Logger(),
	}
}

// SaveImage writes an image of the declared size into folder, usually the
// paper id, and returns its URL. The type is sniffed from the content, not
// taken from the client.
func (s *MediaService) SaveImage(r io.Reader, size int64, folder string) (string, error) {
	if size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, size, s.cfg.MaxUploadBytes)
	}

	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(head)
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(), ", "))
	}

	folder = strings.ToLower(strings.TrimSpace(folder))
	if !mediaFolderPattern.MatchString(folder) {
		folder = defaultMediaGroup
	}
	dir := filepath.Join(s.cfg.UploadDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(dir, filename)
	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	// One byte past the limit is enough to detect a lying Content-Length.
	written, err := io.Copy(dst, io.LimitReader(br, s.cfg.MaxUploadBytes+1))
	if err != nil {
		_ = os.Remove(destPath)
		return "", fmt.Errorf("write file: %w", err)
	}
	if written > s.cfg.MaxUploadBytes {
		_ = os.Remove(destPath)
		return "", fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.cfg.MaxUploadBytes)
	}

	url := mediaURLPrefix + folder + "/" + filename
	s.log.Info().Str("url", url).Int64("bytes", written).Str("type", contentType).Msg("Image stored")
	return url, nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
