package service

import (
	"context"
	"fmt"
	"time"

	"mindful-ai-be/internal/dto"
	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/pkg/logger"
	"mindful-ai-be/internal/pkg/mailer"
	"mindful-ai-be/internal/repository/specification"
	"mindful-ai-be/internal/repository/unitofwork"
	"mindful-ai-be/pkg/identity"

	"github.com/google/uuid"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.SessionResponse, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error)
	LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error)
	GoogleAuthURL() *dto.AuthURLResponse
	HandleOAuthCallback(ctx context.Context, code string) (*dto.SessionResponse, error)
	Logout(ctx context.Context, accessToken string) error
	CurrentUser(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, accessToken, newPassword string) error

	CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]*dto.UserResponse, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role entity.UserRole) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	identity         *identity.Client
	uowFactory       unitofwork.RepositoryFactory
	emailService     mailer.IEmailService
	frontendURL      string
	adminSetupSecret string
	logger           logger.ILogger
}

func NewAuthService(
	identityClient *identity.Client,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	frontendURL string,
	adminSetupSecret string,
	logger logger.ILogger,
) IAuthService {
	return &authService{
		identity:         identityClient,
		uowFactory:       uowFactory,
		emailService:     emailService,
		frontendURL:      frontendURL,
		adminSetupSecret: adminSetupSecret,
		logger:           logger,
	}
}

// Register creates the provider account and relays the verification code via
// our own mailer. The relational mirror row is written on first verified
// sign-in, not here.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	user, err := s.identity.SignUp(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		return nil, err
	}

	link, err := s.identity.AdminGenerateLink(ctx, "signup", req.Email, req.Password, "")
	if err != nil || link.EmailOTP == "" {
		// The provider still delivers its own default email in this case.
		s.logger.Warn("auth.service", "otp relay unavailable, provider email used", map[string]interface{}{
			"email": req.Email,
		})
	} else if mailErr := s.emailService.SendOTP(req.Email, link.EmailOTP); mailErr != nil {
		s.logger.Error("auth.service", "failed to send otp email", map[string]interface{}{
			"email": req.Email,
			"error": mailErr.Error(),
		})
	}

	return providerUserToResponse(user, entity.UserRoleUser), nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.SessionResponse, error) {
	session, err := s.identity.VerifyOTP(ctx, req.Email, req.Token, "signup")
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(ctx, session)
}

func (s *authService) ResendOTP(ctx context.Context, email string) error {
	return s.identity.ResendOTP(ctx, email)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	session, err := s.identity.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(ctx, session)
}

// LoginAdmin behaves like Login but rejects accounts without the admin role.
func (s *authService) LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	resp, err := s.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.User.Role != string(entity.UserRoleAdmin) {
		return nil, ErrForbidden
	}
	return resp, nil
}

func (s *authService) GoogleAuthURL() *dto.AuthURLResponse {
	redirectTo := s.frontendURL + "/auth/callback"
	return &dto.AuthURLResponse{Url: s.identity.AuthorizeURL("google", redirectTo)}
}

func (s *authService) HandleOAuthCallback(ctx context.Context, code string) (*dto.SessionResponse, error) {
	session, err := s.identity.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(ctx, session)
}

func (s *authService) Logout(ctx context.Context, accessToken string) error {
	return s.identity.SignOut(ctx, accessToken)
}

func (s *authService) CurrentUser(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return userToResponse(user), nil
}

// ForgotPassword mails a branded reset link. When the provider refuses the
// generate_link call we fall back to its built-in recovery email.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	link, err := s.identity.AdminGenerateLink(ctx, "recovery", email, "", s.frontendURL+"/reset-password")
	if err != nil || link.ActionLink == "" {
		return s.identity.Recover(ctx, email)
	}
	return s.emailService.SendResetLink(email, link.ActionLink)
}

// ResetPassword sets a new password for the owner of the recovery token.
func (s *authService) ResetPassword(ctx context.Context, accessToken, newPassword string) error {
	return s.identity.UpdatePassword(ctx, accessToken, newPassword)
}

// CreateAdmin provisions a pre-confirmed admin account. Guarded by the
// bootstrap secret so the first admin can be created on a fresh deployment.
func (s *authService) CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*dto.UserResponse, error) {
	if s.adminSetupSecret == "" || req.SetupSecret != s.adminSetupSecret {
		return nil, ErrInvalidSecret
	}

	user, err := s.identity.AdminCreateUser(ctx, req.Email, req.Password, map[string]interface{}{
		"role": string(entity.UserRoleAdmin),
	})
	if err != nil {
		return nil, err
	}

	userId, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, fmt.Errorf("provider returned malformed user id: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	mirror := &entity.User{
		Id:        userId,
		Email:     user.Email,
		FullName:  user.FullName(),
		Role:      entity.UserRoleAdmin,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := uow.UserRepository().Upsert(ctx, mirror); err != nil {
		return nil, err
	}
	return userToResponse(mirror), nil
}

func (s *authService) ListUsers(ctx context.Context) ([]*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, userToResponse(u))
	}
	return responses, nil
}

// UpdateRole changes the role in both the relational store and the provider's
// app metadata, so the JWT fast path stays truthful after the next sign-in.
func (s *authService) UpdateRole(ctx context.Context, id uuid.UUID, role entity.UserRole) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	if err := uow.UserRepository().UpdateRole(ctx, id, role); err != nil {
		return err
	}

	if _, err := s.identity.AdminUpdateUser(ctx, id.String(), map[string]interface{}{
		"app_metadata": map[string]interface{}{"role": string(role)},
	}); err != nil {
		s.logger.Warn("auth.service", "provider role sync failed", map[string]interface{}{
			"user_id": id.String(),
			"error":   err.Error(),
		})
	}
	return nil
}

func (s *authService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	if err := s.identity.AdminDeleteUser(ctx, id.String()); err != nil {
		return err
	}
	return uow.UserRepository().Delete(ctx, id)
}

// sessionResponse mirrors the provider user into the relational store and
// shapes the API session. The mirror row is upserted on every sign-in so
// email and name changes stay in sync; the stored role is authoritative.
func (s *authService) sessionResponse(ctx context.Context, session *identity.Session) (*dto.SessionResponse, error) {
	userId, err := uuid.Parse(session.User.ID)
	if err != nil {
		return nil, fmt.Errorf("provider returned malformed user id: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}

	role := entity.UserRoleUser
	if existing != nil {
		role = existing.Role
	} else if session.User.Role() == string(entity.UserRoleAdmin) {
		role = entity.UserRoleAdmin
	}

	mirror := &entity.User{
		Id:        userId,
		Email:     session.User.Email,
		FullName:  session.User.FullName(),
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := uow.UserRepository().Upsert(ctx, mirror); err != nil {
		return nil, err
	}

	return &dto.SessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
		User:         *userToResponse(mirror),
	}, nil
}

func userToResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:        u.Id,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func providerUserToResponse(u *identity.User, role entity.UserRole) *dto.UserResponse {
	id, _ := uuid.Parse(u.ID)
	return &dto.UserResponse{
		Id:        id,
		Email:     u.Email,
		FullName:  u.FullName(),
		Role:      string(role),
		CreatedAt: u.CreatedAt,
	}
}
