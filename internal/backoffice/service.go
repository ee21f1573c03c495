// Package backoffice holds the admin operations: staff accounts and the
// product daily-rate feed.
package backoffice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"procurement/internal/apperr"
	"procurement/models"
)

const defaultRateWindowDays = 7

type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	CreateUser(ctx context.Context, u *models.User) error
	ProductExists(ctx context.Context, id int64) (bool, error)
	CreateDailyRate(ctx context.Context, r *models.DailyRate) error
	ListDailyRates(ctx context.Context, productID int64, f models.DailyRateFilter) ([]models.DailyRate, int, error)
}

type CreateEmployeeRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type DailyRateInput struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Rate      decimal.Decimal `json:"rate"`
}

type UpdateDailyRatesRequest struct {
	Rates []DailyRateInput `json:"rates" validate:"required,min=1,dive"`
}

type Service struct {
	store    Store
	pageSize int
	now      func() time.Time
	log      logrus.FieldLogger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, pageSize int, log logrus.FieldLogger, opts ...Option) *Service {
	if pageSize < 1 {
		pageSize = 8
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Service{store: store, pageSize: pageSize, now: time.Now, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEmployee registers a verified EMPLOYEE account with a bcrypt hash of
// the given password.
func (s *Service) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("Cannot create employee", fmt.Errorf("hash password: %w", err))
	}

	u := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         models.RoleEmployee,
		Verified:     true,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, apperr.Conflict("Email already registered", err)
		}
		return nil, apperr.Internal("Cannot create employee", err)
	}

	s.log.WithField("user_id", u.ID).Info("employee created")
	return u, nil
}

// RateWindow returns the period covered by a daily-rate query: from the start
// of the day `days` days ago to the end of today.
func RateWindow(now time.Time, days int) (time.Time, time.Time) {
	if days <= 0 {
		days = defaultRateWindowDays
	}
	start := now.AddDate(0, 0, -days)
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
	to := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	return from, to
}

func (s *Service) GetDailyRates(ctx context.Context, productID int64, page, days int) (models.Page[models.DailyRate], error) {
	from, to := RateWindow(s.now(), days)
	page, perPage := models.NormalizePage(page, 0, s.pageSize)

	rates, total, err := s.store.ListDailyRates(ctx, productID, models.DailyRateFilter{
		Page:    page,
		PerPage: perPage,
		From:    from,
		To:      to,
	})
	if err != nil {
		return models.Page[models.DailyRate]{}, apperr.Internal("Cannot get daily rates", err)
	}
	return models.NewPage(rates, total, page, perPage), nil
}

// UpdateDailyRates appends one rate row per input in a single transaction.
// The newest row of a product is its current rate.
func (s *Service) UpdateDailyRates(ctx context.Context, req UpdateDailyRatesRequest) ([]models.DailyRate, error) {
	for _, in := range req.Rates {
		if in.Rate.IsNegative() {
			return nil, apperr.Invalid(fmt.Sprintf("rate of product %d must not be negative", in.ProductID), nil)
		}
		if !models.FitsMoney(in.Rate) {
			return nil, apperr.Invalid(fmt.Sprintf("rate of product %d must have at most 2 decimals and stay below 1000000000000", in.ProductID), nil)
		}
	}

	created := make([]models.DailyRate, 0, len(req.Rates))
	err := s.store.InTx(ctx, func(tx Store) error {
		for _, in := range req.Rates {
			ok, err := tx.ProductExists(ctx, in.ProductID)
			if err != nil {
				return fmt.Errorf("check product %d: %w", in.ProductID, err)
			}
			if !ok {
				return apperr.NotFound(fmt.Sprintf("Product %d not found", in.ProductID), nil)
			}
			r := models.DailyRate{ProductID: in.ProductID, Rate: in.Rate}
			if err := tx.CreateDailyRate(ctx, &r); err != nil {
				return fmt.Errorf("create daily rate for product %d: %w", in.ProductID, err)
			}
			created = append(created, r)
		}
		return nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperr.Internal("Cannot update daily rates", err)
	}
	return created, nil
}
