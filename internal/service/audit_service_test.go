package service

import (
	"context"
	"errors"
	"testing"

	"learnquest/internal/domain"

	"github.com/stretchr/testify/assert"
)

type failingAudit struct{ calls int }

func (f *failingAudit) Create(context.Context, *domain.AuditLog) error {
	f.calls++
	return errors.New("db down")
}

func (f *failingAudit) GetByUserID(context.Context, int64, int) ([]*domain.AuditLog, error) {
	return nil, errors.New("db down")
}

func TestAuditLogIsFailSoft(t *testing.T) {
	repo := &failingAudit{}
	s := NewAuditService(repo)

	assert.NotPanics(t, func() {
		s.LogAuth(context.Background(), 1, domain.AuditActionLogin, nil)
	})
	assert.Equal(t, 1, repo.calls)

	var nilService *AuditService
	assert.NotPanics(t, func() {
		nilService.Log(context.Background(), 1, domain.AuditActionLogin, domain.AuditCategoryAuth, nil)
	})
}

func TestAuditLogCarriesRequestInfo(t *testing.T) {
	store := newMemStore()
	s := NewAuditService(memAudit{store})

	ctx := WithRequestInfo(context.Background(), "192.0.2.1", "curl/8")
	s.LogThemePurchase(ctx, 7, "dark", 100)

	if assert.Len(t, store.audit, 1) {
		entry := store.audit[0]
		assert.Equal(t, int64(7), entry.UserID)
		assert.Equal(t, domain.AuditCategoryShop, entry.Category)
		assert.Equal(t, "192.0.2.1", entry.IP)
		assert.Equal(t, "dark", entry.Details["theme_id"])
	}
}
