// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/tapedeck/internal/api"
)

// MockMixtapeService is a scriptable test double for [api.MixtapeService].
// Unset funcs return an empty response; every call is recorded.
type MockMixtapeService struct {
	GetFunc    func(ctx context.Context, publicID string) (*api.MixtapeResponse, error)
	CreateFunc func(ctx context.Context, req *api.MixtapeRequest) (*api.MixtapeResponse, error)
	UpdateFunc func(ctx context.Context, publicID string, req *api.MixtapeRequest) (*api.MixtapeResponse, error)
	ClaimFunc  func(ctx context.Context, publicID string) (*api.MixtapeResponse, error)
	UndoFunc   func(ctx context.Context, publicID string) (*api.MixtapeResponse, error)
	RedoFunc   func(ctx context.Context, publicID string) (*api.MixtapeResponse, error)
	ExportFunc func(ctx context.Context, publicID string) (*api.MixtapeResponse, error)
	ListFunc   func(ctx context.Context) ([]api.MixtapeOverview, error)

	mu             sync.Mutex
	calls          []string
	updateRequests []*api.MixtapeRequest
}

func (m *MockMixtapeService) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

// Calls returns the method names invoked so far, in order.
func (m *MockMixtapeService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// UpdateRequests returns every request body passed to UpdateMixtape.
func (m *MockMixtapeService) UpdateRequests() []*api.MixtapeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*api.MixtapeRequest(nil), m.updateRequests...)
}

func (m *MockMixtapeService) GetMixtape(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
	m.record("GetMixtape")
	if m.GetFunc != nil {
		return m.GetFunc(ctx, publicID)
	}
	return &api.MixtapeResponse{PublicID: publicID}, nil
}

func (m *MockMixtapeService) CreateMixtape(ctx context.Context, req *api.MixtapeRequest) (*api.MixtapeResponse, error) {
	m.record("CreateMixtape")
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return &api.MixtapeResponse{Name: req.Name}, nil
}

func (m *MockMixtapeService) UpdateMixtape(ctx context.Context, publicID string, req *api.MixtapeRequest) (*api.MixtapeResponse, error) {
	m.record("UpdateMixtape")
	m.mu.Lock()
	m.updateRequests = append(m.updateRequests, req)
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, publicID, req)
	}
	return &api.MixtapeResponse{PublicID: publicID, Name: req.Name}, nil
}

func (m *MockMixtapeService) ClaimMixtape(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
	m.record("ClaimMixtape")
	if m.ClaimFunc != nil {
		return m.ClaimFunc(ctx, publicID)
	}
	return &api.MixtapeResponse{PublicID: publicID}, nil
}

func (m *MockMixtapeService) Undo(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
	m.record("Undo")
	if m.UndoFunc != nil {
		return m.UndoFunc(ctx, publicID)
	}
	return &api.MixtapeResponse{PublicID: publicID}, nil
}

func (m *MockMixtapeService) Redo(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
	m.record("Redo")
	if m.RedoFunc != nil {
		return m.RedoFunc(ctx, publicID)
	}
	return &api.MixtapeResponse{PublicID: publicID}, nil
}

func (m *MockMixtapeService) SpotifyExport(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
	m.record("SpotifyExport")
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, publicID)
	}
	return &api.MixtapeResponse{PublicID: publicID}, nil
}

func (m *MockMixtapeService) ListMixtapes(ctx context.Context) ([]api.MixtapeOverview, error) {
	m.record("ListMixtapes")
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []api.MixtapeOverview{}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// FakeClipboard records writes and optionally fails them.
type FakeClipboard struct {
	mu     sync.Mutex
	Err    error
	writes []string
}

func (c *FakeClipboard) Write(text string) error {
	if c.Err != nil {
		return c.Err
	}
	c.mu.Lock()
	c.writes = append(c.writes, text)
	c.mu.Unlock()
	return nil
}

// Writes returns everything copied so far.
func (c *FakeClipboard) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

// Ptr returns a pointer to v; handy for optional request fields.
func Ptr[T any](v T) *T { return &v }

var _ io.Reader = (*FCloser)(nil)
var _ api.MixtapeService = (*MockMixtapeService)(nil)
