package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// PublicLeadRequest is the landing page intake form.
type PublicLeadRequest struct {
	NomeCompleto string  `json:"nomeCompleto" validate:"required,min=3,max=200"`
	Telefone     string  `json:"telefone" validate:"required,brphone"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	CpfCnpj      string  `json:"cpfCnpj" validate:"required,cpfcnpj"`
	Mensagem     *string `json:"mensagem,omitempty" validate:"omitempty,max=2000"`
}

type UpdateLeadRequest struct {
	NomeCompleto *string      `json:"nomeCompleto,omitempty" validate:"omitempty,min=3,max=200"`
	Telefone     *string      `json:"telefone,omitempty" validate:"omitempty,brphone"`
	Email        *string      `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Notas        *string      `json:"notas,omitempty" validate:"omitempty,max=5000"`
	CloserID     OptionalUUID `json:"closerId,omitempty" validate:"-"`
}

type SoldServiceInput struct {
	ServiceID  uuid.UUID `json:"serviceId" validate:"required"`
	ValorCents int64     `json:"valorCents" validate:"min=0"`
}

// TransitionRequest moves a lead to another status. The payload fields are
// read according to the target status.
type TransitionRequest struct {
	Status          string             `json:"status" validate:"required,oneof=novo_lead em_atendimento finalizado interesse_outros ganho"`
	ServiceIDs      []uuid.UUID        `json:"serviceIds,omitempty" validate:"omitempty,max=50"`
	FormaPagamento  string             `json:"formaPagamento,omitempty" validate:"omitempty,oneof=pix_avista cartao_credito boleto_avista boleto_30dias boleto_parcelado"`
	ValorGanhoCents int64              `json:"valorGanhoCents,omitempty" validate:"min=0"`
	SoldServices    []SoldServiceInput `json:"soldServices,omitempty" validate:"omitempty,max=50,dive"`
	QtdParcelas     int                `json:"qtdParcelas,omitempty" validate:"min=0"`
	DataPagamento   string             `json:"dataPagamento,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type ReplaceTagsRequest struct {
	ServiceIDs []uuid.UUID `json:"serviceIds" validate:"max=50"`
}

type ReplaceSoldServicesRequest struct {
	Items []SoldServiceInput `json:"items" validate:"required,min=1,max=50,dive"`
}

type AssignLeadRequest struct {
	VendedorID *uuid.UUID `json:"vendedorId"`
}

type ListLeadsRequest struct {
	Status     string `form:"status" validate:"omitempty,oneof=novo_lead em_atendimento finalizado interesse_outros ganho"`
	VendedorID string `form:"vendedorId" validate:"omitempty,uuid"`
	Unassigned bool   `form:"unassigned"`
	Search     string `form:"search" validate:"omitempty,max=100"`
	From       string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// Response DTOs

type InstallmentResponse struct {
	Numero         int    `json:"numero"`
	ValorCents     int64  `json:"valorCents"`
	DataVencimento string `json:"dataVencimento"`
	Pago           bool   `json:"pago"`
}

type SLAResponse struct {
	Deadline         time.Time `json:"deadline"`
	RemainingSeconds int64     `json:"remainingSeconds"`
	Bucket           string    `json:"bucket"`
}

type LeadResponse struct {
	ID               uuid.UUID             `json:"id"`
	NomeCompleto     string                `json:"nomeCompleto"`
	Telefone         string                `json:"telefone"`
	Email            string                `json:"email"`
	CpfCnpj          string                `json:"cpfCnpj"`
	Status           string                `json:"status"`
	Notas            *string               `json:"notas,omitempty"`
	VendedorID       *uuid.UUID            `json:"vendedorId,omitempty"`
	VendedorNome     *string               `json:"vendedorNome,omitempty"`
	CloserID         *uuid.UUID            `json:"closerId,omitempty"`
	CloserNome       *string               `json:"closerNome,omitempty"`
	ServicoInteresse *string               `json:"servicoInteresse,omitempty"`
	ServicoRealizado *string               `json:"servicoRealizado,omitempty"`
	ValorGanhoCents  *int64                `json:"valorGanhoCents,omitempty"`
	FormaPagamento   *string               `json:"formaPagamento,omitempty"`
	DataPagamento    *string               `json:"dataPagamento,omitempty"`
	QtdParcelas      *int                  `json:"qtdParcelas,omitempty"`
	Parcelas         []InstallmentResponse `json:"parcelas,omitempty"`
	SLA              *SLAResponse          `json:"sla,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type LeadStatsResponse struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"byStatus"`
	WonCount      int            `json:"wonCount"`
	WonTotalCents int64          `json:"wonTotalCents"`
}

type TagResponse struct {
	ServiceID uuid.UUID `json:"serviceId"`
	Nome      string    `json:"nome"`
	Ativo     bool      `json:"ativo"`
}

type SoldServiceResponse struct {
	ServiceID  uuid.UUID `json:"serviceId"`
	Nome       string    `json:"nome"`
	Ativo      bool      `json:"ativo"`
	ValorCents int64     `json:"valorCents"`
}

type ActivityResponse struct {
	ID        uuid.UUID      `json:"id"`
	ActorID   *uuid.UUID     `json:"actorId,omitempty"`
	EventType string         `json:"eventType"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}

type PublicLeadResponse struct {
	Success bool `json:"success"`
}
