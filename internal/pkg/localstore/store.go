package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Named keys persisted per device. These mirror what the web client
// keeps between page loads: who is logged in, the live attendance
// session, a clock action awaiting selfie confirmation, and the
// captured selfie/geo payload the return view picks up.
const (
	KeyAuthUser        = "authUser"
	KeyAttendanceState = "attendanceStateV1"
	KeyPendingAction   = "pendingAction"
	KeySelfiePayload   = "selfiePayload"
	KeyDeviceUUID      = "device_uuid"
)

// Manager hands out per-device stores backed by JSON files under a
// base directory.
type Manager struct {
	basePath string

	mu   sync.Mutex
	open map[string]*Store
}

func NewManager(basePath string) (*Manager, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Manager{
		basePath: basePath,
		open:     make(map[string]*Store),
	}, nil
}

// Device returns the store for deviceID, creating it (and a fresh
// device UUID) when the id is empty or unknown.
func (m *Manager) Device(deviceID string) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if deviceID == "" {
		deviceID = uuid.NewString()
	}
	if s, ok := m.open[deviceID]; ok {
		return s, nil
	}

	s := &Store{
		path:   filepath.Join(m.basePath, deviceID+".json"),
		values: make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	if _, ok := s.values[KeyDeviceUUID]; !ok {
		s.values[KeyDeviceUUID] = deviceID
		if err := s.flush(); err != nil {
			return nil, err
		}
	}

	m.open[deviceID] = s
	return s, nil
}

// DeviceIDs lists every device with persisted state.
func (m *Manager) DeviceIDs() ([]string, error) {
	entries, err := os.ReadDir(m.basePath)
	if err != nil {
		return nil, fmt.Errorf("list store directory: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	return ids, nil
}

// Store holds the named string values for one device. Every mutation is
// flushed to disk so a restart does not lose an in-progress session.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read device store: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return fmt.Errorf("decode device store %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode device store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write device store: %w", err)
	}
	return nil
}

// DeviceID returns the stable random identifier for this device.
func (s *Store) DeviceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[KeyDeviceUUID]
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flush()
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flush()
}

// GetJSON decodes the value at key into v. Returns false when the key
// is absent; decoding errors are returned as errors.
func (s *Store) GetJSON(key string, v interface{}) (bool, error) {
	raw, ok := s.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func (s *Store) SetJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(key, string(data))
}
