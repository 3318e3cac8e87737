package service

import (
	"context"

	"learnquest/internal/domain"
	"learnquest/internal/logger"
)

type requestInfoKey struct{}

type requestInfo struct {
	ip        string
	userAgent string
}

// WithRequestInfo attaches the caller's address and user agent for audit entries.
func WithRequestInfo(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, requestInfo{ip: ip, userAgent: userAgent})
}

// AuditService handles audit logging
type AuditService struct {
	repo AuditRepository
}

func NewAuditService(repo AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log writes an audit entry. Failures are logged and never reach the caller.
func (s *AuditService) Log(ctx context.Context, userID int64, action, category string, details map[string]interface{}) {
	if s == nil || s.repo == nil {
		return
	}

	entry := &domain.AuditLog{
		UserID:   userID,
		Action:   action,
		Category: category,
		Details:  details,
	}
	if info, ok := ctx.Value(requestInfoKey{}).(requestInfo); ok {
		entry.IP = info.ip
		entry.UserAgent = info.userAgent
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		logger.WithContext(ctx).Errorw("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogAuth logs an account event
func (s *AuditService) LogAuth(ctx context.Context, userID int64, action string, details map[string]interface{}) {
	s.Log(ctx, userID, action, domain.AuditCategoryAuth, details)
}

// LogSkillUnlock logs an SP spend in the skill tree
func (s *AuditService) LogSkillUnlock(ctx context.Context, userID, nodeID, cost int64) {
	s.Log(ctx, userID, domain.AuditActionSkillUnlock, domain.AuditCategoryProgression, map[string]interface{}{
		"skill_node_id": nodeID,
		"sp_cost":       cost,
	})
}

// LogThemePurchase logs an SP spend in the shop
func (s *AuditService) LogThemePurchase(ctx context.Context, userID int64, themeID string, cost int64) {
	s.Log(ctx, userID, domain.AuditActionThemePurchase, domain.AuditCategoryShop, map[string]interface{}{
		"theme_id": themeID,
		"sp_cost":  cost,
	})
}

// GetUserAuditLogs returns audit logs for a user
func (s *AuditService) GetUserAuditLogs(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetByUserID(ctx, userID, limit)
}
