package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/gospend/internal/domain"
)

// CredentialUseCase handles the local account record.
type CredentialUseCase struct {
	store  KeyValueStore
	logger zerolog.Logger
}

// NewCredentialUseCase creates a new CredentialUseCase.
func NewCredentialUseCase(store KeyValueStore, logger zerolog.Logger) *CredentialUseCase {
	return &CredentialUseCase{
		store:  store,
		logger: logger,
	}
}

// SignUpInput represents input for creating the local account.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// SignUp stores the account record, replacing any previous one. Unlike ledger
// saves the write is awaited.
func (uc *CredentialUseCase) SignUp(ctx context.Context, input SignUpInput) (*domain.Credential, error) {
	cred := domain.Credential{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		Password: input.Password,
	}

	if err := cred.Validate(); err != nil {
		return nil, err
	}

	data, err := domain.EncodeCredential(cred)
	if err != nil {
		return nil, err
	}

	if err := uc.store.Set(ctx, domain.KeyUserData, data); err != nil {
		uc.logger.Error().Err(err).Msg("error saving user data")
		return nil, fmt.Errorf("%w: saving user data: %w", domain.ErrPersistence, err)
	}

	uc.logger.Info().Str("name", cred.Name).Msg("account created")

	return &cred, nil
}

// Profile returns the stored account record.
func (uc *CredentialUseCase) Profile(ctx context.Context) (*domain.Credential, error) {
	data, err := uc.store.Get(ctx, domain.KeyUserData)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return nil, domain.ErrCredentialNotFound
	}
	if err != nil {
		return nil, err
	}

	cred, err := domain.DecodeCredential(data)
	if err != nil {
		return nil, err
	}

	return &cred, nil
}

// HasAccount reports whether an account record exists. Presence alone lets
// the app skip the landing screen.
func (uc *CredentialUseCase) HasAccount(ctx context.Context) (bool, error) {
	_, err := uc.store.Get(ctx, domain.KeyUserData)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}

// Login checks email and password against the stored record.
func (uc *CredentialUseCase) Login(ctx context.Context, email, password string) (*domain.Credential, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: please fill in all fields", domain.ErrValidation)
	}

	cred, err := uc.Profile(ctx)
	if err != nil {
		return nil, err
	}

	if !cred.Matches(email, password) {
		uc.logger.Warn().Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	return cred, nil
}

// Start validates the name entered on the landing screen and returns it trimmed.
func (uc *CredentialUseCase) Start(name string) (string, error) {
	if err := domain.ValidateName(name); err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}

// Recover accepts a password recovery request. Nothing is sent; the request is logged.
func (uc *CredentialUseCase) Recover(ctx context.Context, email string) error {
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}

	uc.logger.Info().Str("email", strings.TrimSpace(email)).Msg("password recovery requested")
	return nil
}
