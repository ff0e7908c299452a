package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iho/gospend/internal/adapter/http/dto"
	"github.com/iho/gospend/internal/domain"
	"github.com/iho/gospend/internal/usecase"
)

type credentialServiceStub struct {
	cred       *domain.Credential
	signUpErr  error
	loginErr   error
	profileErr error
	hasErr     error
	recovered  []string
}

func (s *credentialServiceStub) SignUp(ctx context.Context, input usecase.SignUpInput) (*domain.Credential, error) {
	if s.signUpErr != nil {
		return nil, s.signUpErr
	}
	s.cred = &domain.Credential{Name: input.Name, Email: input.Email, Password: input.Password}
	return s.cred, nil
}

func (s *credentialServiceStub) Profile(ctx context.Context) (*domain.Credential, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	if s.cred == nil {
		return nil, domain.ErrCredentialNotFound
	}
	return s.cred, nil
}

func (s *credentialServiceStub) HasAccount(ctx context.Context) (bool, error) {
	return s.cred != nil, s.hasErr
}

func (s *credentialServiceStub) Login(ctx context.Context, email, password string) (*domain.Credential, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.cred, nil
}

func (s *credentialServiceStub) Start(name string) (string, error) {
	if err := domain.ValidateName(name); err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}

func (s *credentialServiceStub) Recover(ctx context.Context, email string) error {
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	s.recovered = append(s.recovered, email)
	return nil
}

func TestCredentialHandler_SignUpHidesPassword(t *testing.T) {
	stub := &credentialServiceStub{}
	h := NewCredentialHandler(stub)

	body := `{"name":"Ana","email":"ana@example.com","password":"secret"}`
	rec := httptest.NewRecorder()
	h.SignUp(rec, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("password leaked in response: %s", rec.Body.String())
	}

	var resp dto.ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Name != "Ana" || resp.Email != "ana@example.com" {
		t.Fatalf("unexpected profile %+v", resp)
	}
}

func TestCredentialHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name     string
		stub     *credentialServiceStub
		call     func(h *CredentialHandler, w http.ResponseWriter)
		wantCode int
	}{
		{
			name: "signup validation",
			stub: &credentialServiceStub{signUpErr: domain.ErrValidation},
			call: func(h *CredentialHandler, w http.ResponseWriter) {
				h.SignUp(w, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"name":""}`)))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "signup storage failure",
			stub: &credentialServiceStub{signUpErr: domain.ErrPersistence},
			call: func(h *CredentialHandler, w http.ResponseWriter) {
				h.SignUp(w, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{}`)))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "login rejected",
			stub: &credentialServiceStub{loginErr: domain.ErrInvalidCredentials},
			call: func(h *CredentialHandler, w http.ResponseWriter) {
				h.Login(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a","password":"b"}`)))
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "login without account",
			stub: &credentialServiceStub{loginErr: domain.ErrCredentialNotFound},
			call: func(h *CredentialHandler, w http.ResponseWriter) {
				h.Login(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a","password":"b"}`)))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "profile missing",
			stub: &credentialServiceStub{},
			call: func(h *CredentialHandler, w http.ResponseWriter) {
				h.Profile(w, httptest.NewRequest(http.MethodGet, "/profile", nil))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "start blank name",
			stub: &credentialServiceStub{},
			call: func(h *CredentialHandler, w http.ResponseWriter) {
				h.Start(w, httptest.NewRequest(http.MethodPost, "/start", strings.NewReader(`{"name":"  "}`)))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "recover blank email",
			stub: &credentialServiceStub{},
			call: func(h *CredentialHandler, w http.ResponseWriter) {
				h.Recover(w, httptest.NewRequest(http.MethodPost, "/recover", strings.NewReader(`{"email":""}`)))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "status store failure",
			stub: &credentialServiceStub{hasErr: errors.New("disk")},
			call: func(h *CredentialHandler, w http.ResponseWriter) {
				h.Status(w, httptest.NewRequest(http.MethodGet, "/account", nil))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.call(NewCredentialHandler(tt.stub), rec)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCredentialHandler_StartRecoverAndStatus(t *testing.T) {
	stub := &credentialServiceStub{}
	h := NewCredentialHandler(stub)

	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/start", strings.NewReader(`{"name":"  Ana "}`)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"Ana"`) {
		t.Fatalf("unexpected start response %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Recover(rec, httptest.NewRequest(http.MethodPost, "/recover", strings.NewReader(`{"email":"ana@example.com"}`)))
	if rec.Code != http.StatusAccepted || len(stub.recovered) != 1 {
		t.Fatalf("unexpected recover response %d, recovered=%v", rec.Code, stub.recovered)
	}

	rec = httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/account", nil))
	var status dto.AccountStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	if status.HasAccount || status.Profile != nil {
		t.Fatalf("expected no account, got %+v", status)
	}

	stub.cred = &domain.Credential{Name: "Ana", Email: "ana@example.com", Password: "pw"}
	rec = httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/account", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	if !status.HasAccount || status.Profile == nil || status.Profile.Name != "Ana" {
		t.Fatalf("expected account with profile, got %+v", status)
	}
}
