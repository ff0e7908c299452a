package handler

import (
	"context"
	"net/http"

	"github.com/iho/gospend/internal/adapter/http/dto"
	"github.com/iho/gospend/internal/domain"
	"github.com/iho/gospend/internal/usecase"
)

// CredentialService defines the behavior needed by CredentialHandler.
type CredentialService interface {
	SignUp(ctx context.Context, input usecase.SignUpInput) (*domain.Credential, error)
	Profile(ctx context.Context) (*domain.Credential, error)
	HasAccount(ctx context.Context) (bool, error)
	Login(ctx context.Context, email, password string) (*domain.Credential, error)
	Start(name string) (string, error)
	Recover(ctx context.Context, email string) error
}

// CredentialHandler handles the landing, signup and recovery screens.
type CredentialHandler struct {
	credentialUC CredentialService
}

// NewCredentialHandler creates a new CredentialHandler.
func NewCredentialHandler(credentialUC CredentialService) *CredentialHandler {
	return &CredentialHandler{credentialUC: credentialUC}
}

// SignUp stores the local account.
func (h *CredentialHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cred, err := h.credentialUC.SignUp(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to sign up")
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProfileFromDomain(cred))
}

// Login checks email and password against the local account.
func (h *CredentialHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cred, err := h.credentialUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFromDomain(cred))
}

// Start accepts the landing screen name.
func (h *CredentialHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.StartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	name, err := h.credentialUC.Start(req.Name)
	if err != nil {
		writeDomainError(w, err, "failed to start")
		return
	}

	writeJSON(w, http.StatusOK, dto.StartResponse{Name: name})
}

// Recover accepts a password recovery request.
func (h *CredentialHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req dto.RecoverRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.credentialUC.Recover(r.Context(), req.Email); err != nil {
		writeDomainError(w, err, "failed to request recovery")
		return
	}

	writeJSON(w, http.StatusAccepted, dto.MessageResponse{
		Message: "If an account exists for this email, recovery instructions will follow.",
	})
}

// Profile returns the stored account without its password.
func (h *CredentialHandler) Profile(w http.ResponseWriter, r *http.Request) {
	cred, err := h.credentialUC.Profile(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFromDomain(cred))
}

// Status tells the landing screen whether it can be skipped.
func (h *CredentialHandler) Status(w http.ResponseWriter, r *http.Request) {
	ok, err := h.credentialUC.HasAccount(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to check account")
		return
	}

	resp := dto.AccountStatusResponse{HasAccount: ok}
	if ok {
		if cred, err := h.credentialUC.Profile(r.Context()); err == nil {
			resp.Profile = dto.ProfileFromDomain(cred)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
