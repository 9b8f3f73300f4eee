package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/pkg/log"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Total   *int   `json:"total,omitempty"`
}

// notFoundMessages are the customer facing texts per entity kind.
var notFoundMessages = map[string]string{
	"vehicle":  "Veículo não encontrado",
	"contract": "Contrato não encontrado",
	"bill":     "Boleto não encontrado",
	"quote":    "Cotação não encontrada",
	"user":     "Usuário não encontrado",
}

// validationMessages replace the error text for fields the frontend shows
// to the customer.
var validationMessages = map[string]string{
	"plate": "Placa e modelo são obrigatórios",
	"model": "Placa e modelo são obrigatórios",
	"name":  "Nome inválido",
	"email": "Email inválido",
	"phone": "Telefone inválido",
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error(err, "Failed to encode response")
	}
}

func writeData(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Message: message})
}

func writeList[T any](w http.ResponseWriter, items []T, withTotal bool) {
	env := envelope{Success: true, Data: items}
	if withTotal {
		total := len(items)
		env.Total = &total
	}
	writeJSON(w, http.StatusOK, env)
}

// writeError maps err onto a status code and message. Unclassified errors
// are logged and reported without details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr  *core.ValidationError
		nferr *core.NotFoundError
		merr  *core.UnsupportedMediaError
	)

	switch {
	case errors.Is(err, core.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, envelope{Message: "Email ou senha inválidos"})
	case errors.As(err, &verr):
		msg, ok := validationMessages[verr.Field]
		if !ok {
			msg = verr.Error()
		}
		writeJSON(w, http.StatusBadRequest, envelope{Message: msg})
	case errors.As(err, &nferr):
		msg, ok := notFoundMessages[nferr.Kind]
		if !ok {
			msg = nferr.Error()
		}
		writeJSON(w, http.StatusNotFound, envelope{Message: msg})
	case errors.As(err, &merr):
		writeJSON(w, http.StatusUnsupportedMediaType, envelope{Message: "Apenas imagens e PDFs de até 5MB são permitidos: " + merr.Error()})
	default:
		log.FromContext(r.Context()).Error(err, "Request failed", "method", r.Method, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, envelope{Message: "Erro ao processar solicitação"})
	}
}
