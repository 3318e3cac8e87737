package service

import (
	"context"
	"errors"
	"time"

	"learnquest/internal/apperr"
	"learnquest/internal/domain"
	"learnquest/internal/metrics"
	"learnquest/internal/repository"
)

// ThemeView is a catalog theme projected for one user.
type ThemeView struct {
	ThemeID     string `json:"theme_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PreviewIcon string `json:"preview_icon"`
	SPCost      int64  `json:"sp_cost"`
	IsPurchased bool   `json:"is_purchased"`
	IsActive    bool   `json:"is_active"`
}

type ThemeCatalog struct {
	Themes []ThemeView `json:"themes"`
	UserSP int64       `json:"user_sp"`
}

type PurchaseResult struct {
	ThemeID     string `json:"theme_id"`
	RemainingSP int64  `json:"remaining_sp"`
}

type ShopService struct {
	tx     Transactor
	users  UserRepository
	themes ThemeRepository
	ledger TransactionRepository
	audit  *AuditService
	now    func() time.Time
}

func NewShopService(tx Transactor, users UserRepository, themes ThemeRepository, ledger TransactionRepository, audit *AuditService) *ShopService {
	return &ShopService{
		tx:     tx,
		users:  users,
		themes: themes,
		ledger: ledger,
		audit:  audit,
		now:    time.Now,
	}
}

func (s *ShopService) ListThemes(ctx context.Context, userID int64) (*ThemeCatalog, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal(err)
	}
	themes, err := s.themes.ListActive(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	out := &ThemeCatalog{Themes: make([]ThemeView, 0, len(themes)), UserSP: u.SP}
	for _, t := range themes {
		out.Themes = append(out.Themes, ThemeView{
			ThemeID:     t.ThemeID,
			Title:       t.Title,
			Description: t.Description,
			PreviewIcon: t.PreviewIcon,
			SPCost:      t.SPCost,
			IsPurchased: u.OwnsTheme(t.ThemeID),
			IsActive:    u.ActiveTheme == t.ThemeID,
		})
	}
	return out, nil
}

// Purchase debits the theme cost exactly once and records the purchase.
func (s *ShopService) Purchase(ctx context.Context, userID int64, themeID string) (*PurchaseResult, error) {
	theme, err := s.themes.GetActive(ctx, themeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrThemeNotFound
		}
		return nil, apperr.Internal(err)
	}

	var result *PurchaseResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := lockUser(ctx, s.users, userID)
		if err != nil {
			return err
		}
		if u.OwnsTheme(theme.ThemeID) {
			return ErrAlreadyOwned
		}
		if u.SP < theme.SPCost {
			return ErrInsufficientSkillPoints
		}

		if err := s.themes.CreatePurchase(ctx, u.ID, theme.ThemeID, s.now()); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyOwned
			}
			return apperr.Internal(err)
		}

		u.SP -= theme.SPCost
		u.AddPurchasedTheme(theme.ThemeID)
		if err := s.users.UpdateProgression(ctx, u); err != nil {
			return apperr.Internal(err)
		}
		if theme.SPCost > 0 {
			if err := s.ledger.Create(ctx, &domain.Transaction{
				UserID: u.ID,
				Type:   domain.TxTypeThemePurchase,
				Amount: -theme.SPCost,
				Meta:   map[string]interface{}{"theme_id": theme.ThemeID},
			}); err != nil {
				return apperr.Internal(err)
			}
		}

		result = &PurchaseResult{ThemeID: theme.ThemeID, RemainingSP: u.SP}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogThemePurchase(ctx, userID, theme.ThemeID, theme.SPCost)
	metrics.RecordThemePurchased(theme.ThemeID, theme.SPCost)
	return result, nil
}

// Activate sets the active theme. An unowned theme leaves the user unchanged.
func (s *ShopService) Activate(ctx context.Context, userID int64, themeID string) (string, error) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := lockUser(ctx, s.users, userID)
		if err != nil {
			return err
		}
		if err := activateTheme(u, themeID); err != nil {
			return err
		}
		if err := s.users.UpdateProgression(ctx, u); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.audit.Log(ctx, userID, domain.AuditActionThemeActivate, domain.AuditCategoryShop, map[string]interface{}{"theme_id": themeID})
	return themeID, nil
}

func activateTheme(u *domain.User, themeID string) error {
	if !u.OwnsTheme(themeID) {
		return ErrNotOwned
	}
	u.ActiveTheme = themeID
	return nil
}
