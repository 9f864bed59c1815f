package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tallyhq/tally-backend/internal/docstore"
	"github.com/tallyhq/tally-backend/internal/domain"
	"github.com/tallyhq/tally-backend/internal/seed"
)

type categoriesState struct {
	Categories []domain.Category        `json:"categories"`
	Patterns   []domain.CategoryPattern `json:"patterns"`
}

// CategoriesStore owns the categories slice: the two-level category tree and
// the auto-categorization patterns.
type CategoriesStore struct {
	mu    sync.RWMutex
	state categoriesState
	p     *persister
}

// NewCategoriesStore creates an empty store persisting through ds.
func NewCategoriesStore(ds docstore.Store) *CategoriesStore {
	return &CategoriesStore{p: newPersister(ds, KeyCategories)}
}

// Load hydrates the slice from its snapshot, migrating stale versions, then
// seeds empty collections.
func (s *CategoriesStore) Load(ctx context.Context) error {
	raw, version, ok, err := s.p.load(ctx)
	if err != nil {
		return err
	}

	var st categoriesState
	dirty := false
	if ok {
		st, err = migrateCategoriesState(raw, version)
		if err != nil {
			logUnreadableState(KeyCategories, err)
			st = categoriesState{}
		}
		dirty = version < SchemaVersion
	}

	s.mu.Lock()
	s.state = st
	seeded := s.seedEmptyLocked()
	s.mu.Unlock()

	if dirty || seeded {
		s.persist()
	}
	return nil
}

func (s *CategoriesStore) seedEmptyLocked() bool {
	seeded := false
	if len(s.state.Categories) == 0 {
		s.state.Categories = seed.Categories()
		seeded = true
	}
	if len(s.state.Patterns) == 0 {
		s.state.Patterns = seed.CategoryPatterns()
		seeded = true
	}
	return seeded
}

// persist snapshots the slices under the lock; in-place mutations must not
// be visible to the marshal.
func (s *CategoriesStore) persist() {
	s.mu.RLock()
	st := categoriesState{
		Categories: append([]domain.Category(nil), s.state.Categories...),
		Patterns:   append([]domain.CategoryPattern(nil), s.state.Patterns...),
	}
	s.mu.RUnlock()
	s.p.persist(st)
}

// Flush waits for in-flight snapshot writes.
func (s *CategoriesStore) Flush() {
	s.p.flush()
}

// GetCategories returns all categories in insertion order.
func (s *CategoriesStore) GetCategories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, len(s.state.Categories))
	copy(out, s.state.Categories)
	return out
}

// GetCategoryByID returns the category with the given id. Callers must
// handle absence: a transaction may reference a deleted category.
func (s *CategoriesStore) GetCategoryByID(id string) (domain.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.state.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

// GetSubcategories returns every category whose parentId equals the
// argument, in insertion order.
func (s *CategoriesStore) GetSubcategories(parentID string) []domain.Category {
	out := []domain.Category{}
	if parentID == "" {
		return out
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.state.Categories {
		if c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out
}

// GetRootCategories returns the root categories of the given type, in
// insertion order.
func (s *CategoriesStore) GetRootCategories(typ domain.TransactionType) []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Category{}
	for _, c := range s.state.Categories {
		if c.Type == typ && c.IsRoot() {
			out = append(out, c)
		}
	}
	return out
}

// GetPatterns returns all auto-categorization patterns.
func (s *CategoriesStore) GetPatterns() []domain.CategoryPattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CategoryPattern, len(s.state.Patterns))
	copy(out, s.state.Patterns)
	return out
}

// SuggestCategory returns the category id of the best pattern match for the
// given transaction description.
func (s *CategoriesStore) SuggestCategory(description string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SuggestCategory(s.state.Patterns, description)
}

// AddCategoryInput holds the input for creating a category.
type AddCategoryInput struct {
	Name        string                 `json:"name"`
	Type        domain.TransactionType `json:"type"`
	ParentID    string                 `json:"parentId,omitempty"`
	Description string                 `json:"description,omitempty"`
	Keywords    []string               `json:"keywords,omitempty"`
	Icon        string                 `json:"icon,omitempty"`
	Color       string                 `json:"color,omitempty"`
}

// AddCategory validates the input, assigns a fresh id and appends the
// category. A child must reference an existing root category of the same
// type; the tree never grows beyond two levels.
func (s *CategoriesStore) AddCategory(input AddCategoryInput) (domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Category{}, domain.ErrNameRequired
	}
	if input.Type != domain.TransactionTypeIncome && input.Type != domain.TransactionTypeExpense {
		return domain.Category{}, domain.ErrInvalidType
	}

	category := domain.Category{
		ID:          "cat_" + uuid.NewString(),
		Name:        name,
		Type:        input.Type,
		ParentID:    input.ParentID,
		Description: input.Description,
		Keywords:    input.Keywords,
		Icon:        input.Icon,
		Color:       input.Color,
	}

	s.mu.Lock()
	if err := s.validateParentLocked(category); err != nil {
		s.mu.Unlock()
		return domain.Category{}, err
	}
	s.state.Categories = append(s.state.Categories, category)
	s.mu.Unlock()

	s.persist()
	return category, nil
}

// CategoryPatch holds optional field updates for a category.
type CategoryPatch struct {
	Name        *string                 `json:"name,omitempty"`
	Type        *domain.TransactionType `json:"type,omitempty"`
	ParentID    *string                 `json:"parentId,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Keywords    []string                `json:"keywords,omitempty"`
	Icon        *string                 `json:"icon,omitempty"`
	Color       *string                 `json:"color,omitempty"`
}

// UpdateCategory merges the patch into the category with the given id and
// re-validates the parent/type invariants on the merged record.
func (s *CategoriesStore) UpdateCategory(id string, patch CategoryPatch) (domain.Category, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.state.Categories {
		if s.state.Categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return domain.Category{}, domain.ErrNotFound
	}

	updated := s.state.Categories[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			s.mu.Unlock()
			return domain.Category{}, domain.ErrNameRequired
		}
		updated.Name = name
	}
	if patch.Type != nil {
		updated.Type = *patch.Type
	}
	if patch.ParentID != nil {
		updated.ParentID = *patch.ParentID
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Keywords != nil {
		updated.Keywords = patch.Keywords
	}
	if patch.Icon != nil {
		updated.Icon = *patch.Icon
	}
	if patch.Color != nil {
		updated.Color = *patch.Color
	}
	// turning a parent into a child would nest its children three deep
	if !updated.IsRoot() && s.hasChildrenLocked(updated.ID) {
		s.mu.Unlock()
		return domain.Category{}, domain.ErrCategoryDepth
	}
	if err := s.validateParentLocked(updated); err != nil {
		s.mu.Unlock()
		return domain.Category{}, err
	}

	s.state.Categories[idx] = updated
	s.mu.Unlock()

	s.persist()
	return updated, nil
}

// DeleteCategory removes the category with the given id. Children and
// transactions that reference it are left dangling; their lookups will
// return absent.
func (s *CategoriesStore) DeleteCategory(id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.state.Categories {
		if s.state.Categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	s.state.Categories = append(s.state.Categories[:idx], s.state.Categories[idx+1:]...)
	s.mu.Unlock()

	s.persist()
	return nil
}

func (s *CategoriesStore) hasChildrenLocked(id string) bool {
	for i := range s.state.Categories {
		if s.state.Categories[i].ParentID == id {
			return true
		}
	}
	return false
}

func (s *CategoriesStore) validateParentLocked(c domain.Category) error {
	if c.IsRoot() {
		return nil
	}
	for i := range s.state.Categories {
		parent := &s.state.Categories[i]
		if parent.ID != c.ParentID {
			continue
		}
		if !parent.IsRoot() {
			return domain.ErrCategoryDepth
		}
		if parent.Type != c.Type {
			return domain.ErrCategoryTypeMismatch
		}
		return nil
	}
	return domain.ErrCategoryNotFound
}
