// Package server реализует gRPC-сервер для авторизационного сервиса.
//
// AuthServer принимает попытки входа, регистрацию, проверку токенов и расчёт членства.
// Логирует операции и ошибки, публикует события аудита входа и делегирует
// бизнес-логику объекту AuthService.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/magabrotheeeer/stadium-auth/internal/grpc/authrpc"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/sl"
	"github.com/magabrotheeeer/stadium-auth/internal/models"
	authservice "github.com/magabrotheeeer/stadium-auth/internal/services/auth"
)

// AuthServiceInterface — фасад аутентификации, который обслуживает сервер.
type AuthServiceInterface interface {
	Authenticate(ctx context.Context, attempt models.LoginAttempt) (models.AuthResult, error)
	Register(ctx context.Context, reg models.Registration) (int64, error)
	ValidateToken(ctx context.Context, token string) (*models.Principal, error)
	EvaluateMembership(status models.MembershipStatus, expiryDate *time.Time) models.MembershipView
}

// EventPublisher публикует события аудита входа.
type EventPublisher interface {
	PublishLogin(ctx context.Context, ev models.LoginEvent) error
}

// AuthServer реализует gRPC-сервис авторизации
type AuthServer struct {
	authService AuthServiceInterface
	events      EventPublisher
	log         *slog.Logger
	now         func() time.Time
}

var _ authrpc.AuthServiceServer = (*AuthServer)(nil)

// NewAuthServer создает новый экземпляр AuthServer.
func NewAuthServer(authService AuthServiceInterface, events EventPublisher, logger *slog.Logger) *AuthServer {
	return &AuthServer{
		authService: authService,
		events:      events,
		log:         logger,
		now:         time.Now,
	}
}

// Authenticate проверяет попытку входа. Отказ возвращается в ответе, а не кодом ошибки.
func (s *AuthServer) Authenticate(ctx context.Context, req *authrpc.AuthenticateRequest) (*authrpc.AuthenticateResponse, error) {
	log := s.log.With(slog.String("op", "server.Authenticate"), slog.String("identifier", req.Identifier))

	res, err := s.authService.Authenticate(ctx, models.LoginAttempt{
		Identifier: req.Identifier,
		Pin:        req.Pin,
		Password:   req.Password,
	})
	if err != nil {
		log.Error("authenticate failed", sl.Err(err))
		return nil, toStatus(err)
	}

	if err := s.events.PublishLogin(ctx, models.NewLoginEvent(req.Identifier, res, s.now().UTC())); err != nil {
		log.Warn("failed to publish login event", sl.Err(err))
	}

	return &authrpc.AuthenticateResponse{
		Outcome:   string(res.Outcome),
		Token:     res.Token,
		Principal: authrpc.FromPrincipal(res.Principal),
		Reason:    string(res.Reason),
	}, nil
}

// Register создает нового участника
func (s *AuthServer) Register(ctx context.Context, req *authrpc.RegisterRequest) (*authrpc.RegisterResponse, error) {
	log := s.log.With(slog.String("op", "server.Register"), slog.String("email", req.Email))

	id, err := s.authService.Register(ctx, models.Registration{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Pin:   req.Pin,
	})
	if err != nil {
		log.Info("register failed", sl.Err(err))
		return nil, toStatus(err)
	}
	return &authrpc.RegisterResponse{UserID: id}, nil
}

// ValidateToken проверяет JWT. Недействительный токен возвращается как Valid=false с причиной.
func (s *AuthServer) ValidateToken(ctx context.Context, req *authrpc.ValidateTokenRequest) (*authrpc.ValidateTokenResponse, error) {
	p, err := s.authService.ValidateToken(ctx, req.Token)
	if err == nil {
		return &authrpc.ValidateTokenResponse{Valid: true, Principal: authrpc.FromPrincipal(p)}, nil
	}

	reason := tokenReason(err)
	if reason == "" {
		s.log.Error("validate token failed", slog.String("op", "server.ValidateToken"), sl.Err(err))
		return nil, toStatus(err)
	}
	s.log.Debug("invalid token", slog.String("reason", reason))
	return &authrpc.ValidateTokenResponse{Valid: false, Reason: reason}, nil
}

// EvaluateMembership вычисляет фактический статус членства.
func (s *AuthServer) EvaluateMembership(_ context.Context, req *authrpc.EvaluateMembershipRequest) (*authrpc.EvaluateMembershipResponse, error) {
	st, err := models.ParseMembershipStatus(req.Status)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	view := s.authService.EvaluateMembership(st, req.ExpiryDate)
	return &authrpc.EvaluateMembershipResponse{
		EffectiveStatus: string(view.EffectiveStatus),
		DaysRemaining:   view.DaysRemaining,
	}, nil
}

func tokenReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return authrpc.TokenReasonExpired
	case errors.Is(err, jwt.ErrSignatureMismatch):
		return authrpc.TokenReasonSignatureMismatch
	case errors.Is(err, jwt.ErrMalformedToken):
		return authrpc.TokenReasonMalformed
	default:
		return ""
	}
}

// toStatus переводит ошибку сервиса в gRPC-статус. Подробности ошибок хранилища клиенту не отдаются.
func toStatus(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, authservice.ErrInvalidRegistration):
		return status.Error(codes.InvalidArgument, "invalid registration")
	case errors.Is(err, models.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "account already exists")
	case errors.Is(err, authservice.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, "credential store unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
