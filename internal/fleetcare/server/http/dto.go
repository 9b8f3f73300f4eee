package http

import (
	"time"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
)

// timestampLayout matches JavaScript's Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z"

func timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func date(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

type coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type vehicleResponse struct {
	ID           string     `json:"id"`
	Plate        string     `json:"plate"`
	Model        string     `json:"model"`
	Status       string     `json:"status"`
	Image        string     `json:"image"`
	LastLocation coordinate `json:"lastLocation"`
}

func toVehicle(v *model.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:           v.ID,
		Plate:        v.Plate,
		Model:        v.Model,
		Status:       string(v.Status),
		Image:        v.Image,
		LastLocation: coordinate(v.Location),
	}
}

type trackingResponse struct {
	VehicleID string     `json:"vehicleId"`
	Location  coordinate `json:"location"`
	Speed     int        `json:"speed"`
	Direction int        `json:"direction"`
	Timestamp string     `json:"timestamp"`
	Status    string     `json:"status"`
}

func toTracking(s model.TelemetrySample) trackingResponse {
	return trackingResponse{
		VehicleID: s.VehicleID,
		Location:  coordinate(s.Location),
		Speed:     s.Speed,
		Direction: s.Heading,
		Timestamp: timestamp(s.Timestamp),
		Status:    string(s.Status),
	}
}

type contractResponse struct {
	ID             string  `json:"id"`
	VehicleID      string  `json:"vehicleId"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	MonthlyValue   float64 `json:"monthlyValue"`
	Status         string  `json:"status"`
	FipeAdjustment float64 `json:"fipeAdjustment"`
	DaysToExpire   *int    `json:"daysToExpire,omitempty"`
	NeedsRenewal   *bool   `json:"needsRenewal,omitempty"`
}

func toContract(c *model.Contract) contractResponse {
	return contractResponse{
		ID:             c.ID,
		VehicleID:      c.VehicleID,
		StartDate:      date(c.StartDate),
		EndDate:        date(c.EndDate),
		MonthlyValue:   c.MonthlyValue.InexactFloat64(),
		Status:         string(c.Status),
		FipeAdjustment: c.FipeAdjustment.InexactFloat64(),
	}
}

func toContractView(v model.ContractView) contractResponse {
	resp := toContract(&v.Contract)
	resp.DaysToExpire = &v.DaysToExpire
	resp.NeedsRenewal = &v.NeedsRenewal
	return resp
}

type billResponse struct {
	ID       string  `json:"id"`
	Month    string  `json:"month"`
	Value    float64 `json:"value"`
	Status   string  `json:"status"`
	DueDate  string  `json:"dueDate"`
	PaidDate *string `json:"paidDate"`
}

func toBill(b *model.Bill) billResponse {
	resp := billResponse{
		ID:      b.ID,
		Month:   b.Month,
		Value:   b.Value.InexactFloat64(),
		Status:  string(b.Status),
		DueDate: date(b.DueDate),
	}
	if b.PaidDate != nil {
		paid := date(*b.PaidDate)
		resp.PaidDate = &paid
	}
	return resp
}

type duplicateResponse struct {
	billResponse
	DuplicateCode string `json:"duplicateCode"`
	GeneratedAt   string `json:"generatedAt"`
}

func toDuplicate(d *model.DuplicateArtifact) duplicateResponse {
	return duplicateResponse{
		billResponse:  toBill(&d.Bill),
		DuplicateCode: d.Code,
		GeneratedAt:   timestamp(d.GeneratedAt),
	}
}

type document struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

type quoteResponse struct {
	ID                string     `json:"id"`
	Plate             string     `json:"plate"`
	Model             string     `json:"model"`
	AdditionalInfo    string     `json:"additionalInfo"`
	Files             []document `json:"files"`
	Status            string     `json:"status"`
	CreatedAt         string     `json:"createdAt"`
	EstimatedResponse string     `json:"estimatedResponse"`
}

func toQuote(q *model.Quote) quoteResponse {
	files := make([]document, 0, len(q.Documents))
	for _, d := range q.Documents {
		files = append(files, document(d))
	}
	return quoteResponse{
		ID:                q.ID,
		Plate:             q.Plate,
		Model:             q.Model,
		AdditionalInfo:    q.Note,
		Files:             files,
		Status:            string(q.Status),
		CreatedAt:         timestamp(q.CreatedAt),
		EstimatedResponse: q.EstimatedResponse,
	}
}

// quoteRequest is the JSON alternative to the multipart form.
type quoteRequest struct {
	Plate          string     `json:"plate"`
	Model          string     `json:"model"`
	AdditionalInfo string     `json:"additionalInfo"`
	Files          []document `json:"files"`
}

func (r quoteRequest) toModel() model.QuoteRequest {
	docs := make([]model.Document, 0, len(r.Files))
	for _, f := range r.Files {
		docs = append(docs, model.Document(f))
	}
	return model.QuoteRequest{Plate: r.Plate, Model: r.Model, Note: r.AdditionalInfo, Documents: docs}
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func toUser(u *model.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

type sessionResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
}

func toSession(s *model.Session) sessionResponse {
	return sessionResponse{User: toUser(&s.User), Token: s.Token, ExpiresAt: timestamp(s.ExpiresAt)}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
