package application

import (
	"context"
	"regexp"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/satyajeet03/rentApp/authorization"
	"github.com/satyajeet03/rentApp/domain"
	"github.com/satyajeet03/rentApp/errors"
)

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

type AuthService struct {
	store  domain.UserStore
	tokens *authorization.TokenService
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewAuthService(store domain.UserStore, tokens *authorization.TokenService, tracer trace.Tracer, logger *logrus.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		tracer: tracer,
		logger: logger,
	}
}

func validateRegistration(user *domain.User) *errors.ValidationError {
	fields := make(map[string]string)
	if user.Name == "" {
		fields["name"] = "Name cannot be empty"
	}
	if user.Email == "" {
		fields["email"] = "Email cannot be empty"
	} else if !emailRegex.MatchString(user.Email) {
		fields["email"] = "Invalid email format"
	}
	if user.Password == "" {
		fields["password"] = "Password cannot be empty"
	}

	switch user.Role {
	case "", domain.RoleTenant, domain.RoleOwner, domain.RoleUser, domain.RoleAdmin:
	default:
		fields["role"] = "Role should be one of tenant, owner, user, admin"
	}

	if len(fields) > 0 {
		return &errors.ValidationError{Message: errors.MissingRequiredFields, Fields: fields}
	}
	return nil
}

// Register creates the user with a hashed password and hands back a fresh
// session token. Email uniqueness comes from the store's unique index.
func (service *AuthService) Register(ctx context.Context, user *domain.User) (*domain.User, string, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	if err := validateRegistration(user); err != nil {
		return nil, "", err
	}

	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user.Password = string(hash)

	registered, err := service.store.Register(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := service.tokens.Issue(registered.ID.Hex())
	if err != nil {
		service.logger.Printf("error issuing token: %s", err)
		return nil, "", err
	}

	return registered, token, nil
}

// Login never reveals whether the email or the password was wrong.
func (service *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	user, err := service.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", errors.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", errors.ErrInvalidCredentials
	}

	token, err := service.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
