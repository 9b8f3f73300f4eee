package model

import (
	"slices"
	"time"
)

type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusApproved QuoteStatus = "approved"
)

// EstimatedResponse is the label shown to the customer after a submission.
const EstimatedResponse = "2-3 dias úteis"

// Document describes an uploaded file. Contents are not kept.
type Document struct {
	Name string
	Size int64
	Type string
}

// Quote is a coverage request for a vehicle.
type Quote struct {
	ID                string
	Plate             string
	Model             string
	Note              string
	Documents         []Document
	Status            QuoteStatus
	CreatedAt         time.Time
	EstimatedResponse string
}

func (q *Quote) Clone() *Quote {
	cp := *q
	cp.Documents = slices.Clone(q.Documents)
	return &cp
}

// QuoteRequest holds the customer supplied fields of a new quote.
type QuoteRequest struct {
	Plate     string
	Model     string
	Note      string
	Documents []Document
}
