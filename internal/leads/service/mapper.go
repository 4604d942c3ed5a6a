package service

import (
	"time"

	"pipeline_backend/internal/leads/domain"
	"pipeline_backend/internal/leads/repository"
	"pipeline_backend/internal/leads/transport"
)

// toLeadResponse exposes the interest label only on interesse_outros leads
// and the sale data only on ganho leads. Stored values survive a move away
// from those statuses but are not shown.
func toLeadResponse(lead repository.Lead, now time.Time) transport.LeadResponse {
	resp := transport.LeadResponse{
		ID:           lead.ID,
		NomeCompleto: lead.NomeCompleto,
		Telefone:     lead.Telefone,
		Email:        lead.Email,
		CpfCnpj:      lead.CpfCnpj,
		Status:       lead.Status,
		Notas:        lead.Notas,
		VendedorID:   lead.VendedorID,
		VendedorNome: lead.VendedorNome,
		CloserID:     lead.CloserID,
		CloserNome:   lead.CloserNome,
		CreatedAt:    lead.CreatedAt,
		UpdatedAt:    lead.UpdatedAt,
	}

	status := domain.Status(lead.Status)
	switch status {
	case domain.StatusInteresseOutros:
		resp.ServicoInteresse = lead.ServicoInteresse
	case domain.StatusGanho:
		resp.ServicoRealizado = lead.ServicoRealizado
		resp.ValorGanhoCents = lead.ValorGanhoCents
		resp.FormaPagamento = lead.FormaPagamento
		resp.QtdParcelas = lead.QtdParcelas
		if lead.DataPagamento != nil {
			date := lead.DataPagamento.Format(domain.DateLayout)
			resp.DataPagamento = &date
		}
		if len(lead.Parcelas) > 0 {
			resp.Parcelas = make([]transport.InstallmentResponse, len(lead.Parcelas))
			for i, p := range lead.Parcelas {
				resp.Parcelas[i] = transport.InstallmentResponse{
					Numero:         p.Numero,
					ValorCents:     p.ValorCents,
					DataVencimento: p.DataVencimento,
					Pago:           p.Pago,
				}
			}
		}
	}

	if sla, ok := domain.ComputeSLA(status, lead.CreatedAt, now); ok {
		resp.SLA = &transport.SLAResponse{
			Deadline:         sla.Deadline,
			RemainingSeconds: int64(sla.Remaining / time.Second),
			Bucket:           string(sla.Bucket),
		}
	}

	return resp
}
