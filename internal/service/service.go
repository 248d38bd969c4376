// Package service реализует бизнес-логику витрины.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/puffingood/internal/cache"
	"github.com/mmeshcher/puffingood/internal/events"
	"github.com/mmeshcher/puffingood/internal/model"
	"github.com/mmeshcher/puffingood/internal/repository"
	"github.com/mmeshcher/puffingood/internal/summary"
	"github.com/mmeshcher/puffingood/internal/validation"
)

// ErrInvalidCredentials возвращается при неверном email или пароле.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error

	CreateUser(ctx context.Context, email string, passwordHash []byte) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUserRole(ctx context.Context, id string, isAdmin bool) error
	UpdateUserProfile(ctx context.Context, id string, p model.Profile, isMarketing bool) error

	CreateFood(ctx context.Context, f model.Food) (*model.Food, error)
	ListFoods(ctx context.Context) ([]model.Food, error)
	GetFood(ctx context.Context, id string) (*model.Food, error)
	UpdateFood(ctx context.Context, f model.Food) (*model.Food, error)
	DeleteFood(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, o model.Order) (*model.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListOrdersSince(ctx context.Context, since time.Time) ([]model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	GetOrderByTrackingNumber(ctx context.Context, number string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, from []model.OrderStatus, to model.OrderStatus) (*model.Order, error)

	GetAdminSettings(ctx context.Context) (*model.AdminSettings, error)
	SaveAdminSettings(ctx context.Context, s model.AdminSettings) error
}

// Metrics принимает бизнес-метрики сервиса.
type Metrics interface {
	OrderPlaced(ctx context.Context, o model.Order)
	Update(s summary.Summary)
}

type nopMetrics struct{}

func (nopMetrics) OrderPlaced(context.Context, model.Order) {}

func (nopMetrics) Update(summary.Summary) {}

// Service содержит бизнес-логику витрины.
type Service struct {
	repo      Repository
	cache     cache.Cache
	publisher events.Publisher
	metrics   Metrics
	logger    *zap.Logger
	now       func() time.Time

	adminEmail string
}

// Option настраивает необязательные зависимости сервиса.
type Option func(*Service)

// WithPublisher задаёт публикатор событий заказов.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics задаёт получателя бизнес-метрик.
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger задаёт логгер сервиса.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithAdminEmail задаёт email пользователя, который получает права администратора
// при регистрации или при вызове EnsureAdmin.
func WithAdminEmail(email string) Option {
	return func(s *Service) { s.adminEmail = strings.TrimSpace(email) }
}

// NewService создаёт новый сервис с указанным репозиторием и кэшем.
func NewService(repo Repository, c cache.Cache, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		cache:     c,
		publisher: events.NopPublisher{},
		metrics:   nopMetrics{},
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	var errs []error
	if s.publisher != nil {
		errs = append(errs, s.publisher.Close())
	}
	if s.repo != nil {
		errs = append(errs, s.repo.Close())
	}
	return errors.Join(errs...)
}

// RegisterUser регистрирует нового пользователя.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (string, error) {
	if err := validation.Credentials(email, password); err != nil {
		return "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.CreateUser(ctx, email, hashed)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return "", repository.ErrUserExists
		}
		return "", err
	}

	if s.isAdminEmail(email) {
		if err := s.repo.UpdateUserRole(ctx, id, true); err != nil {
			return "", fmt.Errorf("promote admin: %w", err)
		}
		s.logger.Info("admin account registered", zap.String("userID", id))
	}

	return id, nil
}

func (s *Service) isAdminEmail(email string) bool {
	return s.adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), s.adminEmail)
}

// EnsureAdmin выдаёт права администратора уже зарегистрированному пользователю
// с email из WithAdminEmail. Если такого пользователя ещё нет, права будут выданы при регистрации.
func (s *Service) EnsureAdmin(ctx context.Context) error {
	if s.adminEmail == "" {
		return nil
	}

	u, err := s.repo.GetUserByEmail(ctx, s.adminEmail)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("find admin: %w", err)
	}
	if u.IsAdmin {
		return nil
	}

	if err := s.repo.UpdateUserRole(ctx, u.ID, true); err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	s.logger.Info("admin account promoted", zap.String("userID", u.ID))
	return nil
}

// AuthenticateUser проверяет email и пароль пользователя и возвращает его идентификатор.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return u.ID, nil
}

// GetUser возвращает пользователя по идентификатору.
func (s *Service) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// UpdateProfile обновляет контактные данные пользователя.
func (s *Service) UpdateProfile(ctx context.Context, userID string, p model.Profile, isMarketing bool) error {
	return s.repo.UpdateUserProfile(ctx, userID, p, isMarketing)
}

// IsAdmin сообщает, является ли пользователь администратором.
func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.IsAdmin, nil
}

// ListUsers возвращает всех пользователей.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

// SetUserRole выдаёт или снимает права администратора.
func (s *Service) SetUserRole(ctx context.Context, userID string, isAdmin bool) error {
	return s.repo.UpdateUserRole(ctx, userID, isAdmin)
}

func (s *Service) actorEmail(ctx context.Context, userID string) string {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Warn("resolve actor", zap.Error(err), zap.String("userID", userID))
		return userID
	}
	return u.Email
}
