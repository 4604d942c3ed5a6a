package service

import (
	"context"
	"sync"
	"time"

	"pipeline_backend/internal/events"
	"pipeline_backend/internal/leads/domain"
	"pipeline_backend/internal/leads/repository"
	"pipeline_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	leads       map[uuid.UUID]repository.Lead
	services    map[uuid.UUID]repository.ServiceRef
	vendedores  map[uuid.UUID]bool
	closers     map[uuid.UUID]uuid.UUID
	tags        map[uuid.UUID][]uuid.UUID
	sold        map[uuid.UUID][]domain.SoldEntry
	activity    []repository.AddActivityParams
	created     []repository.CreateLeadParams
	transitions []repository.ApplyTransitionParams
	listParams  []repository.ListParams
	applyErr    error
	beforeApply func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads:      make(map[uuid.UUID]repository.Lead),
		services:   make(map[uuid.UUID]repository.ServiceRef),
		vendedores: make(map[uuid.UUID]bool),
		closers:    make(map[uuid.UUID]uuid.UUID),
		tags:       make(map[uuid.UUID][]uuid.UUID),
		sold:       make(map[uuid.UUID][]domain.SoldEntry),
	}
}

func (f *fakeRepo) addService(nome string) uuid.UUID {
	id := uuid.New()
	f.services[id] = repository.ServiceRef{ID: id, Nome: nome, Ativo: true}
	return id
}

func (f *fakeRepo) addLead(status domain.Status, vendedorID *uuid.UUID, createdAt time.Time) repository.Lead {
	lead := repository.Lead{
		ID:           uuid.New(),
		NomeCompleto: "Maria Souza",
		Telefone:     "+5511987654321",
		Email:        "maria@example.com",
		CpfCnpj:      "11144477735",
		Status:       string(status),
		VendedorID:   vendedorID,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	f.leads[lead.ID] = lead
	return lead
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Lead, int, error) {
	f.listParams = append(f.listParams, params)
	out := make([]repository.Lead, 0)
	for _, lead := range f.leads {
		if params.VendedorID != nil && (lead.VendedorID == nil || *lead.VendedorID != *params.VendedorID) {
			continue
		}
		out = append(out, lead)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Stats(_ context.Context, vendedorID *uuid.UUID) (repository.Stats, error) {
	stats := repository.Stats{ByStatus: make(map[string]int)}
	for _, lead := range f.leads {
		if vendedorID != nil && (lead.VendedorID == nil || *lead.VendedorID != *vendedorID) {
			continue
		}
		stats.Total++
		stats.ByStatus[lead.Status]++
	}
	return stats, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	f.created = append(f.created, params)
	now := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	lead := repository.Lead{
		ID:           uuid.New(),
		NomeCompleto: params.NomeCompleto,
		Telefone:     params.Telefone,
		Email:        params.Email,
		CpfCnpj:      params.CpfCnpj,
		Notas:        params.Notas,
		Status:       string(domain.StatusNovoLead),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	if params.NomeCompleto != nil {
		lead.NomeCompleto = *params.NomeCompleto
	}
	if params.Telefone != nil {
		lead.Telefone = *params.Telefone
	}
	if params.Email != nil {
		lead.Email = *params.Email
	}
	if params.Notas != nil {
		lead.Notas = params.Notas
	}
	if params.CloserSet {
		lead.CloserID = params.CloserID
	}
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return apperr.NotFound("lead not found")
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) SetVendedor(_ context.Context, params repository.AssignParams) (repository.Lead, error) {
	lead, ok := f.leads[params.LeadID]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	lead.VendedorID = params.VendedorID
	f.leads[params.LeadID] = lead
	return lead, nil
}

func (f *fakeRepo) ApplyTransition(_ context.Context, params repository.ApplyTransitionParams) (repository.Lead, error) {
	if f.applyErr != nil {
		return repository.Lead{}, f.applyErr
	}
	if f.beforeApply != nil {
		f.beforeApply()
	}
	lead, ok := f.leads[params.LeadID]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	if lead.Status != params.FromStatus {
		return repository.Lead{}, apperr.Conflict("lead status changed concurrently; reload and retry")
	}
	f.transitions = append(f.transitions, params)

	lead.Status = string(params.Plan.To)
	if params.Plan.Won != nil {
		total := params.Plan.Won.TotalCents
		method := string(params.Plan.Won.PaymentMethod)
		label := params.WonLabel
		lead.ValorGanhoCents = &total
		lead.FormaPagamento = &method
		lead.ServicoRealizado = &label
		lead.Parcelas = params.Plan.Won.Installments
		lead.QtdParcelas = params.Plan.Won.InstallmentCount
		f.sold[params.LeadID] = params.Plan.Won.Entries
	}
	if params.Plan.To == domain.StatusInteresseOutros {
		label := params.InterestLabel
		lead.ServicoInteresse = &label
		f.tags[params.LeadID] = params.Plan.InterestServiceIDs
	}
	f.leads[params.LeadID] = lead
	return lead, nil
}

func (f *fakeRepo) GetServices(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]repository.ServiceRef, error) {
	out := make(map[uuid.UUID]repository.ServiceRef)
	for _, id := range ids {
		if ref, ok := f.services[id]; ok {
			out[id] = ref
		}
	}
	return out, nil
}

func (f *fakeRepo) ListTags(_ context.Context, leadID uuid.UUID) ([]repository.TagRow, error) {
	out := make([]repository.TagRow, 0)
	for _, id := range f.tags[leadID] {
		ref := f.services[id]
		out = append(out, repository.TagRow{ServiceID: id, Nome: ref.Nome, Ativo: ref.Ativo})
	}
	return out, nil
}

func (f *fakeRepo) ReplaceTags(_ context.Context, leadID uuid.UUID, serviceIDs []uuid.UUID) error {
	f.tags[leadID] = append([]uuid.UUID(nil), serviceIDs...)
	return nil
}

func (f *fakeRepo) ListSoldServices(_ context.Context, leadID uuid.UUID) ([]repository.SoldServiceRow, error) {
	out := make([]repository.SoldServiceRow, 0)
	for _, e := range f.sold[leadID] {
		ref := f.services[e.ServiceID]
		out = append(out, repository.SoldServiceRow{ServiceID: e.ServiceID, Nome: ref.Nome, Ativo: ref.Ativo, ValorCents: e.ValorCents})
	}
	return out, nil
}

func (f *fakeRepo) ReplaceSoldServices(_ context.Context, leadID uuid.UUID, entries []domain.SoldEntry) error {
	f.sold[leadID] = append([]domain.SoldEntry(nil), entries...)
	return nil
}

func (f *fakeRepo) AddActivity(_ context.Context, params repository.AddActivityParams) error {
	f.activity = append(f.activity, params)
	return nil
}

func (f *fakeRepo) AddSLAWarning(_ context.Context, params repository.AddActivityParams) (bool, error) {
	for _, a := range f.activity {
		if a.LeadID == params.LeadID && a.EventType == repository.ActivitySLAWarning {
			return false, nil
		}
	}
	params.EventType = repository.ActivitySLAWarning
	f.activity = append(f.activity, params)
	return true, nil
}

func (f *fakeRepo) ListActivity(_ context.Context, leadID uuid.UUID) ([]repository.Activity, error) {
	out := make([]repository.Activity, 0)
	for _, a := range f.activity {
		if a.LeadID == leadID {
			out = append(out, repository.Activity{ID: uuid.New(), LeadID: a.LeadID, ActorID: a.ActorID, EventType: a.EventType, Message: a.Message, Metadata: a.Metadata})
		}
	}
	return out, nil
}

func (f *fakeRepo) ListSLADue(_ context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error) {
	warned := make(map[uuid.UUID]bool)
	for _, a := range f.activity {
		if a.EventType == repository.ActivitySLAWarning {
			warned[a.LeadID] = true
		}
	}
	ids := make([]uuid.UUID, 0)
	for id, lead := range f.leads {
		open := lead.Status == string(domain.StatusNovoLead) || lead.Status == string(domain.StatusEmAtendimento)
		if open && !lead.CreatedAt.After(createdBefore) && !warned[id] && len(ids) < limit {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeRepo) IsVendedor(_ context.Context, userID uuid.UUID) (bool, error) {
	return f.vendedores[userID], nil
}

func (f *fakeRepo) CloserOwner(_ context.Context, closerID uuid.UUID) (uuid.UUID, error) {
	owner, ok := f.closers[closerID]
	if !ok {
		return uuid.Nil, apperr.Validation("closer not found")
	}
	return owner, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.published))
	for i, e := range b.published {
		out[i] = e.EventName()
	}
	return out
}

type recordingScheduler struct {
	leadID uuid.UUID
	runAt  time.Time
	calls  int
}

func (s *recordingScheduler) ScheduleLeadSLACheck(_ context.Context, leadID uuid.UUID, runAt time.Time) error {
	s.calls++
	s.leadID = leadID
	s.runAt = runAt
	return nil
}
