package repositories

import (
	"sort"
	"sync"
	"time"

	"ordermgmt/internal/apperrors"
	"ordermgmt/internal/models"
)

// MockReturnRepository is an in-memory implementation of ReturnRepository.
type MockReturnRepository struct {
	returns map[uint]models.Return
	nextID  uint
	mu      sync.RWMutex
}

// NewMockReturnRepository creates a new instance of MockReturnRepository.
func NewMockReturnRepository() *MockReturnRepository {
	return &MockReturnRepository{
		returns: make(map[uint]models.Return),
		nextID:  1,
	}
}

// GetAll returns all returns, newest first.
func (r *MockReturnRepository) GetAll() ([]models.Return, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	returns := make([]models.Return, 0, len(r.returns))
	for _, ret := range r.returns {
		returns = append(returns, copyReturn(ret))
	}
	sort.Slice(returns, func(i, j int) bool {
		return returns[i].CreatedAt.After(returns[j].CreatedAt)
	})
	return returns, nil
}

// GetByID returns a return by its ID.
func (r *MockReturnRepository) GetByID(id uint) (*models.Return, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ret, ok := r.returns[id]
	if !ok {
		return nil, apperrors.NewNotFound("return", id)
	}
	out := copyReturn(ret)
	return &out, nil
}

// Create adds a new return, assigning IDs to the return and its items.
func (r *MockReturnRepository) Create(ret *models.Return) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ret.ID = r.nextID
	r.nextID++
	ret.CreatedAt = time.Now().UTC()
	ret.UpdatedAt = ret.CreatedAt
	for i := range ret.Items {
		ret.Items[i].ID = r.nextID
		r.nextID++
		ret.Items[i].ReturnID = ret.ID
		ret.Items[i].CreatedAt = ret.CreatedAt
	}
	r.returns[ret.ID] = copyReturn(*ret)
	return nil
}

// Update replaces the stored return if the version still matches.
func (r *MockReturnRepository) Update(ret *models.Return) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.returns[ret.ID]
	if !ok {
		return apperrors.NewNotFound("return", ret.ID)
	}
	if stored.Version != ret.Version {
		return apperrors.NewConflict("return", ret.ID)
	}
	ret.Version++
	ret.UpdatedAt = time.Now().UTC()
	r.returns[ret.ID] = copyReturn(*ret)
	return nil
}

func copyReturn(ret models.Return) models.Return {
	items := make([]models.ReturnItem, len(ret.Items))
	copy(items, ret.Items)
	ret.Items = items
	return ret
}
