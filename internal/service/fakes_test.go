package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"learnquest/internal/domain"
	"learnquest/internal/repository"
)

// memStore backs every repository contract with maps.
// Stored values are copied in and out so callers cannot mutate state without a write.
type memStore struct {
	mu sync.Mutex

	users    map[int64]*domain.User
	nextUser int64

	paths    map[int64]*domain.LearningPath
	modules  []*domain.Module
	lessons  map[int64]*domain.Lesson
	progress map[[2]int64]bool

	trees    map[int64]*domain.SkillTree // by path id
	nodes    map[int64]*domain.SkillNode
	unlocks  map[[2]int64]time.Time
	themes   map[string]*domain.Theme
	bought   map[string]bool // "userID:themeID"
	ledger   []*domain.Transaction
	audit    []*domain.AuditLog
	resets   map[string]*domain.PasswordReset
	nextID   int64
	failNext error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]*domain.User{},
		paths:    map[int64]*domain.LearningPath{},
		lessons:  map[int64]*domain.Lesson{},
		progress: map[[2]int64]bool{},
		trees:    map[int64]*domain.SkillTree{},
		nodes:    map[int64]*domain.SkillNode{},
		unlocks:  map[[2]int64]time.Time{},
		themes:   map[string]*domain.Theme{},
		bought:   map[string]bool{},
		resets:   map[string]*domain.PasswordReset{},
	}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.CompletedLessons = slices.Clone(u.CompletedLessons)
	c.UnlockedSkills = slices.Clone(u.UnlockedSkills)
	c.PurchasedThemes = slices.Clone(u.PurchasedThemes)
	return &c
}

// memTx runs fn directly; the fakes have no rollback.
type memTx struct{ calls int }

func (t *memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.s.nextUser++
	u.ID = r.s.nextUser
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r memUsers) GetByIDForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r memUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r memUsers) UsernameExists(ctx context.Context, username string) (bool, error) {
	u, _ := r.GetByUsername(ctx, username)
	return u != nil, nil
}

func (r memUsers) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	u, _ := r.find(func(u *domain.User) bool { return u.Email == email && u.ID != excludeID })
	return u != nil, nil
}

func (r memUsers) put(u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failNext != nil {
		err := r.s.failNext
		r.s.failNext = nil
		return err
	}
	if _, ok := r.s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	c := cloneUser(u)
	c.Level = domain.LevelForXP(c.XP)
	r.s.users[u.ID] = c
	return nil
}

func (r memUsers) UpdateProgression(_ context.Context, u *domain.User) error { return r.put(u) }
func (r memUsers) UpdateProfile(_ context.Context, u *domain.User) error     { return r.put(u) }

func (r memUsers) UpdatePassword(_ context.Context, userID int64, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

type memCatalog struct{ s *memStore }

func (r memCatalog) ListActivePaths(context.Context) ([]*domain.LearningPath, error) {
	out := []*domain.LearningPath{}
	for _, p := range r.s.paths {
		if p.IsActive {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b *domain.LearningPath) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r memCatalog) GetPath(_ context.Context, id int64) (*domain.LearningPath, error) {
	p, ok := r.s.paths[id]
	if !ok || !p.IsActive {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r memCatalog) ListModules(_ context.Context, pathID int64) ([]*domain.Module, error) {
	out := []*domain.Module{}
	for _, m := range r.s.modules {
		if m.PathID == pathID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memCatalog) ListLessons(_ context.Context, pathID int64) ([]*domain.Lesson, error) {
	out := []*domain.Lesson{}
	for _, m := range r.s.modules {
		if m.PathID != pathID {
			continue
		}
		for _, l := range r.s.lessons {
			if l.ModuleID == m.ID {
				out = append(out, l)
			}
		}
	}
	slices.SortFunc(out, func(a, b *domain.Lesson) int { return a.Order - b.Order })
	return out, nil
}

func (r memCatalog) GetLesson(_ context.Context, id int64) (*domain.Lesson, error) {
	l, ok := r.s.lessons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return l, nil
}

func (r memCatalog) CountLessons(context.Context) (int64, error) {
	return int64(len(r.s.lessons)), nil
}

type memProgress struct{ s *memStore }

func (r memProgress) MarkCompleted(_ context.Context, userID, lessonID int64, _ *int, _ time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]int64{userID, lessonID}
	if r.s.progress[key] {
		return false, nil
	}
	r.s.progress[key] = true
	return true, nil
}

type memSkills struct{ s *memStore }

func (r memSkills) GetNode(_ context.Context, id int64) (*domain.SkillNode, error) {
	n, ok := r.s.nodes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return n, nil
}

func (r memSkills) GetTreeByPath(_ context.Context, pathID int64) (*domain.SkillTree, error) {
	t, ok := r.s.trees[pathID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (r memSkills) CreateUnlock(_ context.Context, userID, nodeID int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]int64{userID, nodeID}
	if _, ok := r.s.unlocks[key]; ok {
		return repository.ErrDuplicate
	}
	r.s.unlocks[key] = at
	return nil
}

type memThemes struct{ s *memStore }

func (r memThemes) ListActive(context.Context) ([]*domain.Theme, error) {
	out := []*domain.Theme{}
	for _, t := range r.s.themes {
		if t.IsActive {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Theme) int { return int(a.SPCost - b.SPCost) })
	return out, nil
}

func (r memThemes) GetActive(_ context.Context, themeID string) (*domain.Theme, error) {
	t, ok := r.s.themes[themeID]
	if !ok || !t.IsActive {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (r memThemes) CreatePurchase(_ context.Context, userID int64, themeID string, _ time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := themeKey(userID, themeID)
	if r.s.bought[key] {
		return repository.ErrDuplicate
	}
	r.s.bought[key] = true
	return nil
}

func themeKey(userID int64, themeID string) string {
	return fmt.Sprintf("%d:%s", userID, themeID)
}

type memLedger struct{ s *memStore }

func (r memLedger) Create(_ context.Context, tx *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	tx.ID = r.s.nextID
	r.s.ledger = append(r.s.ledger, tx)
	return nil
}

func (r memLedger) GetByUserID(_ context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	out := []*domain.Transaction{}
	for i := len(r.s.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.ledger[i].UserID == userID {
			out = append(out, r.s.ledger[i])
		}
	}
	return out, nil
}

type memAudit struct{ s *memStore }

func (r memAudit) Create(_ context.Context, entry *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audit = append(r.s.audit, entry)
	return nil
}

func (r memAudit) GetByUserID(_ context.Context, userID int64, limit int) ([]*domain.AuditLog, error) {
	out := []*domain.AuditLog{}
	for _, e := range r.s.audit {
		if e.UserID == userID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memStore) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.audit))
	for _, e := range s.audit {
		out = append(out, e.Action)
	}
	return out
}

type memResets struct{ s *memStore }

func (r memResets) Create(_ context.Context, p *domain.PasswordReset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	p.ID = r.s.nextID
	r.s.resets[p.TokenHash] = p
	return nil
}

func (r memResets) GetByHashForUpdate(_ context.Context, hash string) (*domain.PasswordReset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.resets[hash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r memResets) MarkUsed(_ context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.resets {
		if p.ID == id {
			used := at
			p.UsedAt = &used
		}
	}
	return nil
}

// seedUser stores a user with the given balances and returns its id.
func (s *memStore) seedUser(username string, xp, sp int64) int64 {
	u := domain.NewUser(username, username+"@example.com", "x", "", "")
	u.XP = xp
	u.SP = sp
	u.Level = domain.LevelForXP(xp)
	_ = memUsers{s}.Create(context.Background(), u)
	return u.ID
}

func (s *memStore) user(id int64) *domain.User {
	u, _ := memUsers{s}.GetByID(context.Background(), id)
	return u
}

// fixture wires every service over a single memStore.
type fixture struct {
	store    *memStore
	tx       *memTx
	tokens   *TokenService
	account  *AccountService
	progress *ProgressionService
	shop     *ShopService
	catalog  *CatalogService
	now      time.Time
}

func newFixture() *fixture {
	s := newMemStore()
	tx := &memTx{}
	users := memUsers{s}
	audit := NewAuditService(memAudit{s})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tokens := NewTokenService(TokenConfig{
		Secret:     []byte("test-secret"),
		Issuer:     "learnquest",
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}, users)

	f := &fixture{
		store:    s,
		tx:       tx,
		tokens:   tokens,
		account:  NewAccountService(tx, users, memResets{s}, tokens, audit, AccountConfig{HashCost: 4, ResetTTL: time.Hour}),
		progress: NewProgressionService(tx, users, memCatalog{s}, memProgress{s}, memSkills{s}, memLedger{s}, audit),
		shop:     NewShopService(tx, users, memThemes{s}, memLedger{s}, audit),
		catalog:  NewCatalogService(memCatalog{s}, memSkills{s}, users),
		now:      now,
	}
	clock := func() time.Time { return f.now }
	f.tokens.now = clock
	f.account.now = clock
	f.progress.now = clock
	f.shop.now = clock
	return f
}
