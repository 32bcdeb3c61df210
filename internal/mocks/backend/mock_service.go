package backend

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"budgetboard/internal/logger"
	"budgetboard/internal/models"
)

//go:embed data/budget.json
var defaultBudget []byte

// MockService serves fixture budget data on the same endpoints as the real backend
type MockService struct {
	mocksDir string
	log      *logger.Logger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewMockService creates a mock backend. Fixtures are read from mocksDir/data when present,
// otherwise the built-in budget is served.
func NewMockService(mocksDir string, log *logger.Logger) *MockService {
	if log == nil {
		log = logger.NewNop()
	}
	return &MockService{
		mocksDir: filepath.Join(mocksDir, "data"),
		log:      log.WithComponent("mock-backend"),
	}
}

// LoadMockData loads the budget fixture
func (m *MockService) LoadMockData() (*models.BudgetResponse, error) {
	content, err := m.loadFixture("budget.json")
	if err != nil {
		return nil, err
	}

	var resp models.BudgetResponse
	if err := json.Unmarshal(content, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal budget fixture: %w", err)
	}
	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid budget fixture: %w", err)
	}
	return &resp, nil
}

func (m *MockService) loadFixture(name string) ([]byte, error) {
	if m.mocksDir != "" {
		content, err := os.ReadFile(filepath.Join(m.mocksDir, name))
		if err == nil {
			return content, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read fixture %s: %w", name, err)
		}
	}
	return defaultBudget, nil
}

// Handler returns the HTTP routes of the mock backend
func (m *MockService) Handler(piePath, barPath string) http.Handler {
	mux := http.NewServeMux()
	serve := func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		resp, err := m.LoadMockData()
		if err != nil {
			m.log.Error("Failed to load mock budget", err)
			http.Error(w, "mock data unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			m.log.Error("Failed to write mock budget", err)
		}
	}
	mux.HandleFunc(piePath, serve)
	mux.HandleFunc(barPath, serve)
	return mux
}

// Start listens on a loopback port and returns the base URL to fetch from
func (m *MockService) Start(piePath, barPath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listener != nil {
		return "http://" + m.listener.Addr().String(), nil
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to start mock backend: %w", err)
	}
	m.listener = ln
	m.server = &http.Server{
		Handler:           m.Handler(piePath, barPath),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := m.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			m.log.Error("Mock backend stopped", err)
		}
	}()

	baseURL := "http://" + ln.Addr().String()
	m.log.Info("Mock backend listening", map[string]interface{}{"url": baseURL})
	return baseURL, nil
}

// Close stops the mock backend
func (m *MockService) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server == nil {
		return nil
	}
	err := m.server.Shutdown(ctx)
	m.server = nil
	m.listener = nil
	return err
}
