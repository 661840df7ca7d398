package builder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Store owns the state of the single template-in-progress. One instance is
// shared by every surface that reads or mutates the builder; all access goes
// through its operations, each of which is atomic under an internal lock.
type Store struct {
	mu                sync.Mutex
	isOpen            bool
	items             []Item
	selected          map[string]struct{}
	editingTemplateID string
	name              string
	description       string
	category          string
}

// State is a point-in-time copy of the builder, safe to read and serialize
// after the operation that produced it has returned.
type State struct {
	IsOpen            bool     `json:"isOpen"`
	Items             []Item   `json:"items"`
	SelectedIDs       []string `json:"selectedIds"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	EditingTemplateID string   `json:"editingTemplateId,omitempty"`
}

func NewStore() *Store {
	return &Store{selected: make(map[string]struct{})}
}

// OpenNew opens the builder on a blank template. The picker selection is left
// alone; it usually feeds the first AddItems call.
func (s *Store) OpenNew() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.editingTemplateID = ""
	s.name, s.description, s.category = "", "", ""
	s.isOpen = true
}

// OpenEdit opens the builder on a stored template. Every stored entry is
// normalized into the item list; entries that cannot be read are skipped and
// show up in the returned warnings. The template's metadata is copied in and
// its id is kept so a later save updates instead of creating.
func (s *Store) OpenEdit(tpl Template, lib map[string]LibraryRecord) ([]Warning, error) {
	if tpl.ID == "" {
		return nil, ErrNoTemplate
	}
	items, warns := FromTemplateEntries(tpl.TemplateItems, lib)
	renumber(items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.editingTemplateID = tpl.ID
	s.name = tpl.Name
	s.description = tpl.Description
	s.category = tpl.Category
	s.isOpen = true
	return warns, nil
}

// Close resets the builder to its initial empty state. Used on cancel and as
// the final step of a successful save.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.selected = make(map[string]struct{})
	s.editingTemplateID = ""
	s.name, s.description, s.category = "", "", ""
	s.isOpen = false
}

// AddItems appends items to the end of the list, never disturbing the order
// of what is already there.
func (s *Store) AddItems(items ...Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOpen {
		return ErrClosed
	}
	s.items = append(s.items, items...)
	renumber(s.items)
	return nil
}

// AddSection appends imported section rows, stamping each with the section
// label. A still-blank template name defaults to the label; the user can
// overwrite it before saving.
func (s *Store) AddSection(label string, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOpen {
		return ErrClosed
	}
	for i := range items {
		items[i].SourceSection = label
	}
	s.items = append(s.items, items...)
	renumber(s.items)
	if strings.TrimSpace(s.name) == "" {
		s.name = label
	}
	return nil
}

// RemoveItem deletes the item at index and renumbers the rest. An index
// outside the list is a no-op.
func (s *Store) RemoveItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOpen {
		return ErrClosed
	}
	if index < 0 || index >= len(s.items) {
		return nil
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	renumber(s.items)
	return nil
}

// Reorder moves the item at from to position to.
func (s *Store) Reorder(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOpen {
		return ErrClosed
	}
	if from < 0 || from >= len(s.items) || to < 0 || to >= len(s.items) {
		return ErrBadIndex
	}
	s.items = Move(s.items, from, to)
	return nil
}

// UpdateItem merges the patch into the item at index. Rate and multiplier
// arrive as raw form strings; non-numeric input is stored as 0.
func (s *Store) UpdateItem(index int, patch ItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOpen {
		return ErrClosed
	}
	if index < 0 || index >= len(s.items) {
		return ErrBadIndex
	}
	it := &s.items[index]
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.Unit != nil {
		it.Unit = *patch.Unit
	}
	if patch.Rate != nil {
		rate, err := strconv.ParseFloat(strings.TrimSpace(*patch.Rate), 64)
		if err != nil {
			rate = 0
		}
		it.Rate = rate
	}
	if patch.QuantityMultiplier != nil {
		qty, err := strconv.ParseFloat(strings.TrimSpace(*patch.QuantityMultiplier), 64)
		if err != nil {
			qty = 0
		}
		it.QuantityMultiplier = qty
	}
	return nil
}

// SetMetadata sets one of the template's metadata fields.
func (s *Store) SetMetadata(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOpen {
		return ErrClosed
	}
	switch field {
	case "name":
		s.name = value
	case "description":
		s.description = value
	case "category":
		s.category = value
	default:
		return fmt.Errorf("unknown metadata field %q", field)
	}
	return nil
}

// ToggleSelection flips the picker selection state of a library item id.
// Selection is independent of the item list and stays available while the
// builder is closed, since the picker grid is live before it opens.
func (s *Store) ToggleSelection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
}

// SetSelection replaces the picker selection. Blank ids are dropped.
func (s *Store) SetSelection(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		s.selected[id] = struct{}{}
	}
}

// ClearSelection empties the picker selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// State returns a copy of the current builder state. The item list and the
// selection are copied, so callers can keep the snapshot across later
// operations.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	selected := make([]string, 0, len(s.selected))
	for id := range s.selected {
		selected = append(selected, id)
	}
	sort.Strings(selected)
	return State{
		IsOpen:            s.isOpen,
		Items:             items,
		SelectedIDs:       selected,
		Name:              s.name,
		Description:       s.description,
		Category:          s.category,
		EditingTemplateID: s.editingTemplateID,
	}
}
