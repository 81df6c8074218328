// Package client содержит gRPC-клиент сервиса авторизации для HTTP API.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/magabrotheeeer/stadium-auth/internal/grpc/authrpc"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/stadium-auth/internal/models"
	authservice "github.com/magabrotheeeer/stadium-auth/internal/services/auth"
)

// ErrUnexpectedResponse — сервер вернул ответ, который клиент не может разобрать.
var ErrUnexpectedResponse = errors.New("unexpected auth service response")

// AuthClient переводит вызовы сервиса авторизации в доменные типы и ошибки.
type AuthClient struct {
	conn   *grpc.ClientConn
	client authrpc.AuthServiceClient
}

// NewAuthClient создает клиента. Соединение устанавливается лениво при первом вызове.
func NewAuthClient(addr string, opts ...grpc.DialOption) (*AuthClient, error) {
	const op = "client.NewAuthClient"
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AuthClient{conn: conn, client: authrpc.NewAuthServiceClient(conn)}, nil
}

// Close закрывает соединение.
func (a *AuthClient) Close() error {
	return a.conn.Close()
}

// Authenticate передаёт попытку входа сервису.
func (a *AuthClient) Authenticate(ctx context.Context, attempt models.LoginAttempt) (models.AuthResult, error) {
	const op = "client.Authenticate"
	resp, err := a.client.Authenticate(ctx, &authrpc.AuthenticateRequest{
		Identifier: attempt.Identifier,
		Pin:        attempt.Pin,
		Password:   attempt.Password,
	})
	if err != nil {
		return models.AuthResult{}, fmt.Errorf("%s: %w", op, fromStatus(err))
	}

	switch models.AuthOutcome(resp.Outcome) {
	case models.OutcomeSuccess:
		if resp.Principal == nil || resp.Token == "" {
			return models.AuthResult{}, fmt.Errorf("%s: %w: success without token", op, ErrUnexpectedResponse)
		}
		p, err := resp.Principal.ToModel()
		if err != nil {
			return models.AuthResult{}, fmt.Errorf("%s: %w: %w", op, ErrUnexpectedResponse, err)
		}
		return models.AuthSuccess(resp.Token, *p), nil
	case models.OutcomeNeedsPassword:
		return models.AuthNeedsPassword(), nil
	case models.OutcomeRejected:
		return models.AuthRejected(models.RejectReason(resp.Reason)), nil
	default:
		return models.AuthResult{}, fmt.Errorf("%s: %w: outcome %q", op, ErrUnexpectedResponse, resp.Outcome)
	}
}

// Register создает участника и возвращает его ID.
func (a *AuthClient) Register(ctx context.Context, reg models.Registration) (int64, error) {
	const op = "client.Register"
	resp, err := a.client.Register(ctx, &authrpc.RegisterRequest{
		Name:  reg.Name,
		Email: reg.Email,
		Phone: reg.Phone,
		Pin:   reg.Pin,
	})
	if status.Code(err) == codes.InvalidArgument {
		return 0, fmt.Errorf("%s: %w: %w", op, authservice.ErrInvalidRegistration, err)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, fromStatus(err))
	}
	return resp.UserID, nil
}

// ValidateToken проверяет токен. Ошибки недействительного токена оборачивают сигнальные ошибки пакета jwt.
func (a *AuthClient) ValidateToken(ctx context.Context, token string) (*models.Principal, error) {
	const op = "client.ValidateToken"
	resp, err := a.client.ValidateToken(ctx, &authrpc.ValidateTokenRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, fromStatus(err))
	}
	if !resp.Valid {
		return nil, fmt.Errorf("%s: %w", op, tokenError(resp.Reason))
	}
	if resp.Principal == nil {
		return nil, fmt.Errorf("%s: %w: valid token without principal", op, ErrUnexpectedResponse)
	}
	p, err := resp.Principal.ToModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrUnexpectedResponse, err)
	}
	return p, nil
}

// EvaluateMembership запрашивает фактический статус членства.
func (a *AuthClient) EvaluateMembership(ctx context.Context, st models.MembershipStatus, expiryDate *time.Time) (models.MembershipView, error) {
	const op = "client.EvaluateMembership"
	resp, err := a.client.EvaluateMembership(ctx, &authrpc.EvaluateMembershipRequest{
		Status:     string(st),
		ExpiryDate: expiryDate,
	})
	if err != nil {
		return models.MembershipView{}, fmt.Errorf("%s: %w", op, fromStatus(err))
	}
	effective, err := models.ParseMembershipStatus(resp.EffectiveStatus)
	if err != nil {
		return models.MembershipView{}, fmt.Errorf("%s: %w: %w", op, ErrUnexpectedResponse, err)
	}
	return models.MembershipView{EffectiveStatus: effective, DaysRemaining: resp.DaysRemaining}, nil
}

func tokenError(reason string) error {
	switch reason {
	case authrpc.TokenReasonExpired:
		return jwt.ErrTokenExpired
	case authrpc.TokenReasonSignatureMismatch:
		return jwt.ErrSignatureMismatch
	default:
		return jwt.ErrMalformedToken
	}
}

// fromStatus восстанавливает доменные ошибки по коду gRPC, сохраняя исходную ошибку в цепочке.
func fromStatus(err error) error {
	switch status.Code(err) {
	case codes.Unavailable:
		return fmt.Errorf("%w: %w", authservice.ErrStoreUnavailable, err)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %w", models.ErrAlreadyExists, err)
	case codes.Canceled:
		return fmt.Errorf("%w: %w", context.Canceled, err)
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	default:
		return err
	}
}
