package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/SergeiKhy/shorturl-service/internal/models"
	"github.com/SergeiKhy/shorturl-service/internal/repository"
)

// MockLinkRepository implements repository.LinkRepository for testing.
// Create is atomic per short code, like the UNIQUE constraint it stands in for.
type MockLinkRepository struct {
	mu     sync.RWMutex
	links  map[string]*models.Link
	nextID int64

	// CreateErr, when set, is returned by Create instead of storing the link.
	CreateErr error
	// CreateCalls counts Create invocations, including failed ones.
	CreateCalls int
}

func NewMockLinkRepository() *MockLinkRepository {
	return &MockLinkRepository{
		links:  make(map[string]*models.Link),
		nextID: 1,
	}
}

func (m *MockLinkRepository) Create(ctx context.Context, link *models.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if _, exists := m.links[link.ShortCode]; exists {
		return repository.ErrCodeExists
	}

	link.ID = m.nextID
	m.nextID++
	stored := *link
	m.links[link.ShortCode] = &stored
	return nil
}

func (m *MockLinkRepository) GetByShortCode(ctx context.Context, code string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.links[code]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	copied := *link
	return &copied, nil
}

// Count returns the number of stored links.
func (m *MockLinkRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.links)
}

// MockClickRepository implements repository.ClickRepository for testing
type MockClickRepository struct {
	mu     sync.Mutex
	links  *MockLinkRepository
	clicks map[string][]models.Click // short_code -> clicks
	nextID int64

	// AppendErr, when set, is returned by AppendClick.
	AppendErr error
}

func NewMockClickRepository(links *MockLinkRepository) *MockClickRepository {
	return &MockClickRepository{
		links:  links,
		clicks: make(map[string][]models.Click),
		nextID: 1,
	}
}

func (m *MockClickRepository) AppendClick(ctx context.Context, click *models.Click) error {
	link, err := m.links.GetByShortCode(ctx, click.ShortCode)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AppendErr != nil {
		return m.AppendErr
	}

	click.ID = m.nextID
	click.LinkID = link.ID
	m.nextID++
	m.clicks[click.ShortCode] = append(m.clicks[click.ShortCode], *click)
	return nil
}

func (m *MockClickRepository) ListClicks(ctx context.Context, shortCode string) ([]models.Click, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clicks := make([]models.Click, len(m.clicks[shortCode]))
	copy(clicks, m.clicks[shortCode])
	return clicks, nil
}

// MockCacheRepository implements repository.CacheRepository for testing
type MockCacheRepository struct {
	mu    sync.RWMutex
	cache map[string]models.Link

	// GetErr, when set, is returned by Get for every key.
	GetErr error
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		cache: make(map[string]models.Link),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, code string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	link, exists := m.cache[code]
	if !exists {
		return nil, repository.ErrCacheMiss
	}
	return &link, nil
}

func (m *MockCacheRepository) Set(ctx context.Context, link *models.Link, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[link.ShortCode] = *link
	return nil
}

// Has reports whether the code is cached.
func (m *MockCacheRepository) Has(code string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cache[code]
	return ok
}

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	mu    sync.RWMutex
	users []*models.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email || u.RollNo == user.RollNo {
			return repository.ErrUserExists
		}
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	m.users = append(m.users, &stored)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *MockUserRepository) FindByEmailOrRollNo(ctx context.Context, email, rollNo string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email || u.RollNo == rollNo {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// Count returns the number of stored users.
func (m *MockUserRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
