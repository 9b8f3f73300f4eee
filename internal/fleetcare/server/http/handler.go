package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"k8s.io/utils/clock"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/service"
)

// Handler adapts the core service to HTTP.
type Handler struct {
	svc            *service.Service
	clock          clock.PassiveClock
	maxUploadSize  int64
	streamInterval time.Duration
}

func NewHandler(svc *service.Service, clk clock.PassiveClock, maxUploadSize int64, streamInterval time.Duration) *Handler {
	return &Handler{svc: svc, clock: clk, maxUploadSize: maxUploadSize, streamInterval: streamInterval}
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   "FGL Rastreamento API is running",
		"timestamp": timestamp(h.clock.Now()),
	})
}

func (h *Handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.svc.ListVehicles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, mapSlice(vehicles, toVehicle), true)
}

func (h *Handler) getVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.GetVehicle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, toVehicle(v), "")
}

func (h *Handler) getTracking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["vehicleId"]
	base, err := h.svc.Tracker.Locate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, toTracking(h.svc.Tracker.Sample(id, base)), "")
}

func (h *Handler) getTrackingHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["vehicleId"]

	hours := 0
	if raw := r.URL.Query().Get("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, &core.ValidationError{Field: "hours", Reason: "must be an integer"})
			return
		}
		hours = n
	}

	base, err := h.svc.Tracker.Locate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	seq, err := h.svc.Tracker.History(id, base, hours)
	if err != nil {
		writeError(w, r, err)
		return
	}

	history := []trackingResponse{}
	for s := range seq {
		history = append(history, toTracking(s))
	}
	writeList(w, history, false)
}

func (h *Handler) listContracts(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.Contracts.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, mapSlice(views, toContractView), false)
}

func (h *Handler) renewContract(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Contracts.Renew(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, toContract(c), "Contrato renovado com sucesso")
}

func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.svc.Billing.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, mapSlice(bills, toBill), false)
}

func (h *Handler) generateDuplicate(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Billing.IssueDuplicate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, toDuplicate(d), "Segunda via gerada e enviada por email com sucesso!")
}

func (h *Handler) listQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.svc.Quotes.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, mapSlice(quotes, toQuote), false)
}

func (h *Handler) submitQuote(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeQuoteRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q, err := h.svc.Quotes.Submit(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, toQuote(q), "Solicitação de cotação enviada com sucesso! Aguarde a avaliação.")
}

// decodeQuoteRequest reads either a multipart form with the documents under
// "files" or a JSON body. Uploaded contents are discarded; only their name,
// size and type are kept.
func (h *Handler) decodeQuoteRequest(w http.ResponseWriter, r *http.Request) (model.QuoteRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var body quoteRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return model.QuoteRequest{}, &core.ValidationError{Field: "body", Reason: err.Error()}
		}
		return body.toModel(), nil
	case "multipart/form-data", "application/x-www-form-urlencoded":
	default:
		return model.QuoteRequest{}, &core.ValidationError{Field: "body", Reason: "expected multipart/form-data or application/json"}
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.QuoteRequest{}, &core.UnsupportedMediaError{Name: "files", Size: tooLarge.Limit, Reason: "request body too large"}
		}
		return model.QuoteRequest{}, &core.ValidationError{Field: "body", Reason: err.Error()}
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	req := model.QuoteRequest{
		Plate: r.FormValue("plate"),
		Model: r.FormValue("model"),
		Note:  r.FormValue("additionalInfo"),
	}
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["files"] {
			req.Documents = append(req.Documents, model.Document{
				Name: fh.Filename,
				Size: fh.Size,
				Type: fh.Header.Get("Content-Type"),
			})
		}
	}
	return req, nil
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	s, err := h.svc.Profiles.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, toSession(s), "Login realizado com sucesso")
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Profiles.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, toUser(u), "")
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var body profileRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.svc.Profiles.Update(r.Context(), model.ProfileUpdate(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, toUser(u), "Perfil atualizado com sucesso")
}

// maxJSONBody bounds the small JSON bodies of the account endpoints.
const maxJSONBody = 64 << 10

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(v); err != nil {
		return &core.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}
