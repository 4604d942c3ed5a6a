package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pipeline_backend/internal/events"
	"pipeline_backend/internal/leads/domain"
	"pipeline_backend/internal/leads/repository"
	"pipeline_backend/internal/leads/service"
	"pipeline_backend/platform/logger"
	"pipeline_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// intakeRepo implements only what the public intake touches.
type intakeRepo struct {
	repository.Repository
	created []repository.CreateLeadParams
}

func (r *intakeRepo) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	r.created = append(r.created, params)
	return repository.Lead{
		ID:           uuid.New(),
		NomeCompleto: params.NomeCompleto,
		Status:       "novo_lead",
		CreatedAt:    time.Now(),
	}, nil
}

func (r *intakeRepo) AddActivity(context.Context, repository.AddActivityParams) error {
	return nil
}

type nopBus struct{}

func (nopBus) Publish(context.Context, events.Event)           {}
func (nopBus) PublishSync(context.Context, events.Event) error { return nil }
func (nopBus) Subscribe(string, events.Handler)                {}

func newIntakeRouter(repo *intakeRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.New(repo, nopBus{}, domain.DefaultTransitionTable(), logger.Discard())
	router := gin.New()
	NewPublicHandler(svc, validator.New()).RegisterRoutes(router.Group("/api/v1/public"))
	return router
}

func postIntake(router *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/leads", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPublicCreateReturnsOnlySuccess(t *testing.T) {
	repo := &intakeRepo{}
	router := newIntakeRouter(repo)

	rec := postIntake(router, map[string]any{
		"nomeCompleto": "Maria Souza",
		"telefone":     "(11) 98765-4321",
		"email":        "maria@example.com",
		"cpfCnpj":      "11.222.333/0001-81",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 1 || body["success"] != true {
		t.Fatalf("expected only {success:true}, got %v", body)
	}
	if len(repo.created) != 1 || repo.created[0].CpfCnpj != "11222333000181" {
		t.Fatalf("expected stored CNPJ digits, got %+v", repo.created)
	}
}

func TestPublicCreateRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		body map[string]any
	}{
		{
			name: "repeated digit cpf",
			body: map[string]any{"nomeCompleto": "Maria Souza", "telefone": "11987654321", "email": "maria@example.com", "cpfCnpj": "11111111111"},
		},
		{
			name: "bad cnpj checksum",
			body: map[string]any{"nomeCompleto": "Maria Souza", "telefone": "11987654321", "email": "maria@example.com", "cpfCnpj": "11222333000182"},
		},
		{
			name: "short phone",
			body: map[string]any{"nomeCompleto": "Maria Souza", "telefone": "98765", "email": "maria@example.com", "cpfCnpj": "11144477735"},
		},
		{
			name: "missing email",
			body: map[string]any{"nomeCompleto": "Maria Souza", "telefone": "11987654321", "cpfCnpj": "11144477735"},
		},
	}

	for _, tc := range cases {
		repo := &intakeRepo{}
		rec := postIntake(newIntakeRouter(repo), tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
		if len(repo.created) != 0 {
			t.Fatalf("%s: expected nothing stored", tc.name)
		}
	}
}
