package capture

import "sync"

// History is the most-recent-first list of archived records.
type History struct {
	mu      sync.RWMutex
	records []Record
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Push(r Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append([]Record{r}, h.records...)
}

func (h *History) Delete(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, r := range h.records {
		if r.ID == id {
			h.records = append(h.records[:i:i], h.records[i+1:]...)
			return true
		}
	}
	return false
}

func (h *History) Clear() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.records)
	h.records = nil
	return n
}

func (h *History) Find(id string) (Record, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, r := range h.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

func (h *History) List() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
