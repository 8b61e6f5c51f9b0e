package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

// JSONStore keeps every layout in a single JSON file.
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *JSONData
}

// JSONData is the on-disk document.
type JSONData struct {
	Layouts map[string]*Layout `json:"layouts"`
}

// NewJSONStore opens filePath, creating it when missing.
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data:     &JSONData{Layouts: make(map[string]*Layout)},
	}
	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %v", err)
		}
	} else if err := store.saveToFile(); err != nil {
		return nil, fmt.Errorf("failed to create JSON store file: %v", err)
	}
	return store, nil
}

func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Layouts == nil {
		js.data.Layouts = make(map[string]*Layout)
	}
	return nil
}

func (js *JSONStore) saveToFile() error {
	js.mutex.RLock()
	data, err := json.MarshalIndent(js.data, "", "  ")
	js.mutex.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(js.filePath, data, 0644)
}

// SaveLayout stores l, replacing any layout with the same ID.
func (js *JSONStore) SaveLayout(l *Layout) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	js.mutex.Lock()
	js.data.Layouts[l.ID] = l
	js.mutex.Unlock()
	if err := js.saveToFile(); err != nil {
		return fmt.Errorf("failed to save layout: %v", err)
	}
	return nil
}

// LoadLayout returns the layout stored under id.
func (js *JSONStore) LoadLayout(id string) (*Layout, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	l, ok := js.data.Layouts[id]
	if !ok {
		return nil, fmt.Errorf("layout %s not found", id)
	}
	return l, nil
}

// ListLayouts returns the sorted IDs of every layout of variant, or of all
// layouts when variant is empty.
func (js *JSONStore) ListLayouts(variant string) ([]string, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	var ids []string
	for id, l := range js.data.Layouts {
		if variant == "" || l.Variant == variant {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Close flushes the file.
func (js *JSONStore) Close() error {
	return js.saveToFile()
}
