package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Mirror keys, one JSON blob per collection.
const (
	KeyUser      = "aptipro-user"
	KeyResults   = "aptipro-results"
	KeyQuestions = "aptipro-questions"
	KeyTests     = "aptipro-tests"
)

// Mirror is a durable write-through copy of in-memory store state. It is a
// cache of the remote API, never a source of truth: stores hydrate from it
// once on startup and overwrite it on every state-replacing mutation.
type Mirror interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
}

// MemoryMirror хранит данные только в памяти; используется в тестах и при
// storage.type = memory.
type MemoryMirror struct {
	data map[string]json.RawMessage
	mu   sync.RWMutex
}

func NewMemoryMirror() *MemoryMirror {
	return &MemoryMirror{data: make(map[string]json.RawMessage)}
}

func (m *MemoryMirror) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok
}

func (m *MemoryMirror) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = json.RawMessage(value)
	return nil
}

func (m *MemoryMirror) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// FileMirror persists the key space as a single JSON object file. A missing
// or unreadable file hydrates as empty; corruption is logged and dropped,
// never fatal.
type FileMirror struct {
	filename string
	logger   zerolog.Logger
	mu       sync.Mutex
}

func NewFileMirror(filename string, logger zerolog.Logger) *FileMirror {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		initial := make(map[string]json.RawMessage)
		data, _ := json.Marshal(initial)
		if err := os.WriteFile(filename, data, 0644); err != nil {
			logger.Warn().Err(err).Str("file", filename).Msg("Failed to initialize mirror file")
		}
	}
	return &FileMirror{filename: filename, logger: logger}
}

func (f *FileMirror) load() map[string]json.RawMessage {
	data, err := os.ReadFile(f.filename)
	if err != nil {
		f.logger.Warn().Err(err).Str("file", f.filename).Msg("Failed to read mirror file, treating as empty")
		return make(map[string]json.RawMessage)
	}
	if len(data) == 0 {
		return make(map[string]json.RawMessage)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		f.logger.Warn().Err(err).Str("file", f.filename).Msg("Mirror file is corrupt, treating as empty")
		return make(map[string]json.RawMessage)
	}
	return m
}

func (f *FileMirror) save(m map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mirror state: %w", err)
	}
	if err := os.WriteFile(f.filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write mirror file %s: %w", f.filename, err)
	}
	return nil
}

func (f *FileMirror) Get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.load()[key]
	return value, ok
}

func (f *FileMirror) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.load()
	m[key] = json.RawMessage(value)
	return f.save(m)
}

func (f *FileMirror) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.load()
	delete(m, key)
	return f.save(m)
}

// NewMirror возвращает реализацию Mirror в зависимости от типа хранения.
func NewMirror(storageType, filename string, logger zerolog.Logger) Mirror {
	if storageType == "file" {
		return NewFileMirror(filename, logger)
	}
	return NewMemoryMirror()
}
