package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/stwalsh4118/evpulse/internal/models"
)

// ErrUnexpectedStatus is returned when an HTTP source answers with a
// non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected http status")

// Source produces a parsed dataset.
type Source interface {
	// Name identifies the source in logs and load status.
	Name() string
	// Load fetches and parses the dataset. It stops early when ctx is done.
	Load(ctx context.Context) (*models.LoadResult, error)
}

// FileSource loads a CSV file from disk.
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Name returns the file path.
func (s *FileSource) Name() string {
	return "file:" + s.Path
}

// Load opens and parses the file.
func (s *FileSource) Load(ctx context.Context) (*models.LoadResult, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	ReportStage(ctx, models.StageParsing)
	return parseWithContext(ctx, f)
}

// HTTPSource downloads a CSV file.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource creates an HTTPSource with a client that gives up after
// timeout. A zero timeout means no client-side limit beyond ctx.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// Name returns the URL.
func (s *HTTPSource) Name() string {
	return "url:" + s.URL
}

// Load performs a GET request and parses the body.
func (s *HTTPSource) Load(ctx context.Context) (*models.LoadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	ReportStage(ctx, models.StageParsing)
	return parseWithContext(ctx, resp.Body)
}

// parseWithContext aborts parsing once ctx is done.
func parseWithContext(ctx context.Context, r io.Reader) (*models.LoadResult, error) {
	result, err := ParseCSV(&contextReader{ctx: ctx, r: r})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return result, err
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
