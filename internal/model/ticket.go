package model

import "time"

// Classification is the kind of intake a ticket records.
type Classification string

const (
	ClassificationComplaint  Classification = "Reclamacao"
	ClassificationSuggestion Classification = "Sugestao"
	ClassificationExperiment Classification = "Experimento"
)

// Attachment references a document attached to a ticket.
type Attachment struct {
	Name string `json:"nome" yaml:"nome"`
	URL  string `json:"url" yaml:"url"`
}

// TicketRequest carries a decision to the ticketing collaborator.
type TicketRequest struct {
	Classification   Classification `json:"classificacao" binding:"required,oneof=Reclamacao Sugestao Experimento"`
	ExecutiveSummary *string        `json:"resumo_executivo" binding:"required"` // Present; may be empty
	Score            *int           `json:"score" binding:"required,min=0,max=100"`
	Phase            int            `json:"fase" binding:"required,min=1,max=3"`
	MaturityLevel    int            `json:"trl" binding:"required,min=1,max=9"`
	GoalTags         []GoalTag      `json:"ods" binding:"required"`
	Opinion          string         `json:"parecer" binding:"required"`
	NextSteps        []string       `json:"proximos_passos" binding:"required"`
	Experiment       map[string]any `json:"experimento" binding:"required"`
	Attachments      []Attachment   `json:"anexos,omitempty"`
}

// Ticket is the receipt returned after a ticket is minted.
type Ticket struct {
	ID        string `json:"ticket_id"`
	StatusURL string `json:"status_url"`
}

// TicketRecord is what the ticket registry keeps about a minted ticket.
type TicketRecord struct {
	Ticket
	Classification   Classification `json:"classificacao"`
	ExecutiveSummary string         `json:"resumo_executivo"`
	Score            int            `json:"score"`
	Phase            int            `json:"fase"`
	MaturityLevel    int            `json:"trl"`
	CreatedAt        time.Time      `json:"created_at"`
}
