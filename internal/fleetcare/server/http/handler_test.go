package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/clock"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/service"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/store/memory"
	"github.com/autopeer-io/fleetcare/internal/pkg/util/random"
)

var testNow = time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Total   *int            `json:"total"`
}

type discard struct{}

func (discard) Dispatch(*model.Notification) {}

func newTestRouter(t *testing.T, clk core.Clock) http.Handler {
	t.Helper()

	seed, err := memory.LoadSeed("")
	require.NoError(t, err)
	store := memory.NewStore()
	require.NoError(t, store.Load(seed))

	svc := service.New(store, service.Config{
		Clock:       clk,
		Random:      random.NewSequence(0.5),
		Dispatcher:  discard{},
		DefaultBase: model.Coordinate{Lat: -23.5505, Lng: -46.6333},
	})
	t.Cleanup(svc.Close)

	return NewRouter(NewHandler(svc, clk, 1<<20, 20*time.Millisecond))
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestReadEndpoints(t *testing.T) {
	h := newTestRouter(t, clocktesting.NewFakeClock(testNow))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantLen    int
		wantTotal  bool
		wantMsg    string
	}{
		{"vehicles", "/api/vehicles", http.StatusOK, 3, true, ""},
		{"unknown vehicle", "/api/vehicles/99", http.StatusNotFound, -1, false, "Veículo não encontrado"},
		{"history default", "/api/tracking/1/history", http.StatusOK, 24, false, ""},
		{"history custom", "/api/tracking/1/history?hours=5", http.StatusOK, 5, false, ""},
		{"history not a number", "/api/tracking/1/history?hours=abc", http.StatusBadRequest, -1, false, ""},
		{"history too long", "/api/tracking/1/history?hours=500", http.StatusBadRequest, -1, false, ""},
		{"contracts", "/api/contracts", http.StatusOK, 3, false, ""},
		{"billing", "/api/billing", http.StatusOK, 6, false, ""},
		{"quotes", "/api/quotes", http.StatusOK, 0, false, ""},
		{"unknown route", "/api/nothing", http.StatusNotFound, -1, false, "Rota não encontrada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, h, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantStatus == http.StatusOK, body.Success)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Message)
			}
			if tt.wantLen >= 0 {
				var items []json.RawMessage
				require.NoError(t, json.Unmarshal(body.Data, &items))
				assert.Len(t, items, tt.wantLen)
			}
			if tt.wantTotal {
				require.NotNil(t, body.Total)
				assert.Equal(t, tt.wantLen, *body.Total)
			} else {
				assert.Nil(t, body.Total)
			}
		})
	}
}

func TestVehicleShape(t *testing.T) {
	h := newTestRouter(t, clocktesting.NewFakeClock(testNow))

	_, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/vehicles/1", nil))
	assert.JSONEq(t, `{
		"id": "1", "plate": "ABC-1234", "model": "Honda Civic 2020", "status": "active",
		"image": "/images/civic.jpg", "lastLocation": {"lat": -23.5505, "lng": -46.6333}
	}`, string(body.Data))
}

func TestTracking(t *testing.T) {
	h := newTestRouter(t, clocktesting.NewFakeClock(testNow))

	_, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/tracking/unknown", nil))
	var sample map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &sample))

	assert.Equal(t, "unknown", sample["vehicleId"])
	assert.Equal(t, float64(60), sample["speed"])
	assert.Equal(t, float64(180), sample["direction"])
	assert.Equal(t, "moving", sample["status"])
	assert.Equal(t, "2024-06-01T15:30:00.000Z", sample["timestamp"])
	assert.Equal(t, map[string]any{"lat": -23.5505, "lng": -46.6333}, sample["location"])
}

func TestContractsAndRenewal(t *testing.T) {
	h := newTestRouter(t, clocktesting.NewFakeClock(testNow))

	_, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/contracts", nil))
	var contracts []map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &contracts))
	assert.Equal(t, float64(14), contracts[0]["daysToExpire"])
	assert.Equal(t, true, contracts[0]["needsRenewal"])
	assert.Equal(t, 89.9, contracts[0]["monthlyValue"])

	rec, body := do(t, h, httptest.NewRequest(http.MethodPost, "/api/contracts/1/renew", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Contrato renovado com sucesso", body.Message)

	var renewed map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &renewed))
	assert.Equal(t, 98.89, renewed["monthlyValue"])
	assert.Equal(t, float64(10), renewed["fipeAdjustment"])
	assert.Equal(t, "2024-06-01", renewed["startDate"])
	assert.Equal(t, "2025-06-01", renewed["endDate"])
	assert.NotContains(t, renewed, "daysToExpire")

	rec, body = do(t, h, httptest.NewRequest(http.MethodPost, "/api/contracts/9/renew", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Contrato não encontrado", body.Message)
}

func TestGenerateDuplicate(t *testing.T) {
	h := newTestRouter(t, clocktesting.NewFakeClock(testNow))

	rec, body := do(t, h, httptest.NewRequest(http.MethodPost, "/api/billing/3/generate-duplicate", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Segunda via gerada e enviada por email com sucesso!", body.Message)

	var dup map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &dup))
	assert.Equal(t, fmt.Sprintf("FGL%d", testNow.UnixMilli()), dup["duplicateCode"])
	assert.Equal(t, "overdue", dup["status"])
	assert.Nil(t, dup["paidDate"])
	assert.Equal(t, "2024-03-15", dup["dueDate"])

	rec, body = do(t, h, httptest.NewRequest(http.MethodPost, "/api/billing/77/generate-duplicate", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Boleto não encontrado", body.Message)
}

type upload struct {
	name, contentType string
	size              int
}

func multipartRequest(t *testing.T, fields map[string]string, files ...upload) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.name))
		hdr.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte{'x'}, f.size))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/quotes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSubmitQuote(t *testing.T) {
	fields := map[string]string{"plate": "XYZ-9876", "model": "Fiat Argo 2022", "additionalInfo": "uso diário"}

	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantMsg    string
	}{
		{
			name: "multipart with documents",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, fields, upload{"crlv.pdf", "application/pdf", 300}, upload{"foto.jpg", "image/jpeg", 200})
			},
			wantStatus: http.StatusOK,
			wantMsg:    "Solicitação de cotação enviada com sucesso! Aguarde a avaliação.",
		},
		{
			name: "json body",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/quotes",
					strings.NewReader(`{"plate":"XYZ-9876","model":"Fiat Argo 2022","files":[{"name":"a.png","size":10,"type":"image/png"}]}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "missing plate",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, map[string]string{"model": "Fiat Argo 2022"})
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Placa e modelo são obrigatórios",
		},
		{
			name: "text document",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, fields, upload{"notes.txt", "text/plain", 10})
			},
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name: "unsupported body",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader("plate"))
				req.Header.Set("Content-Type", "text/plain")
				return req
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, clocktesting.NewFakeClock(testNow))

			rec, body := do(t, h, tt.req(t))
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Message)
			}

			_, list := do(t, h, httptest.NewRequest(http.MethodGet, "/api/quotes", nil))
			var quotes []map[string]any
			require.NoError(t, json.Unmarshal(list.Data, &quotes))
			if tt.wantStatus != http.StatusOK {
				assert.Empty(t, quotes)
				return
			}
			require.Len(t, quotes, 1)
			assert.Equal(t, "pending", quotes[0]["status"])
			assert.Equal(t, "2-3 dias úteis", quotes[0]["estimatedResponse"])
		})
	}
}

func TestSubmittedQuoteDocuments(t *testing.T) {
	h := newTestRouter(t, clocktesting.NewFakeClock(testNow))

	req := multipartRequest(t, map[string]string{"plate": "XYZ-9876", "model": "Argo"}, upload{"crlv.pdf", "application/pdf", 300})
	_, body := do(t, h, req)

	var q map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &q))
	assert.Equal(t, []any{map[string]any{"name": "crlv.pdf", "size": float64(300), "type": "application/pdf"}}, q["files"])
	assert.Equal(t, "", q["additionalInfo"])
	assert.Equal(t, "2024-06-01T15:30:00.000Z", q["createdAt"])
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t, clocktesting.NewFakeClock(testNow))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"OK","message":"FGL Rastreamento API is running","timestamp":"2024-06-01T15:30:00.000Z"}`, rec.Body.String())

	for _, path := range []string{"/healthz", "/readyz"} {
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, "ok", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fleetcare_http_requests_total")
}

func TestCORSAndRequestID(t *testing.T) {
	h := newTestRouter(t, clocktesting.NewFakeClock(testNow))

	req := httptest.NewRequest(http.MethodOptions, "/api/quotes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vehicles", nil))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	ctx := context.WithValue(context.Background(), requestIDKey{}, "abc")
	assert.Equal(t, "abc", RequestIDFromContext(ctx))
}

func TestTrackingStream(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, clock.RealClock{}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/tracking/2/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	for range 2 {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var sample trackingResponse
		require.NoError(t, conn.ReadJSON(&sample))
		assert.Equal(t, "2", sample.VehicleID)
		assert.Equal(t, 60, sample.Speed)
	}
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestProfile(t *testing.T) {
	h := newTestRouter(t, clocktesting.NewFakeClock(testNow))

	rec, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, body.Success)
	assert.JSONEq(t, `{"id": "1", "name": "Felipe Silva", "email": "felipe@fglrastreamento.com", "phone": "(11) 99999-9999"}`, string(body.Data))

	rec, body = do(t, h, jsonRequest(http.MethodPut, "/api/auth/profile", `{"name": "Felipe Souza", "phone": ""}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Perfil atualizado com sucesso", body.Message)
	assert.JSONEq(t, `{"id": "1", "name": "Felipe Souza", "email": "felipe@fglrastreamento.com", "phone": "(11) 99999-9999"}`, string(body.Data))

	_, body = do(t, h, httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))
	assert.Contains(t, string(body.Data), "Felipe Souza")
}

func TestUpdateProfileErrors(t *testing.T) {
	h := newTestRouter(t, clocktesting.NewFakeClock(testNow))

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"bad email", `{"email": "felipe"}`, "Email inválido"},
		{"bad phone", `{"phone": "call me"}`, "Telefone inválido"},
		{"malformed body", `{"name": `, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, h, jsonRequest(http.MethodPut, "/api/auth/profile", tt.body))
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.False(t, body.Success)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Message)
			}
		})
	}

	_, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))
	assert.Contains(t, string(body.Data), `"email":"felipe@fglrastreamento.com"`)
}

func TestLogin(t *testing.T) {
	h := newTestRouter(t, clocktesting.NewFakeClock(testNow))

	rec, body := do(t, h, jsonRequest(http.MethodPost, "/api/auth/login", `{"email": "felipe@fglrastreamento.com", "password": "demo123"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, body.Success)
	assert.Equal(t, "Login realizado com sucesso", body.Message)

	var session struct {
		User      map[string]string `json:"user"`
		Token     string            `json:"token"`
		ExpiresAt string            `json:"expiresAt"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &session))
	assert.Equal(t, "Felipe Silva", session.User["name"])
	assert.NotContains(t, session.User, "password")
	assert.Len(t, strings.Split(session.Token, "."), 3)
	assert.Equal(t, "2024-06-02T15:30:00.000Z", session.ExpiresAt)

	for _, payload := range []string{
		`{"email": "felipe@fglrastreamento.com", "password": "wrong"}`,
		`{"email": "ghost@fglrastreamento.com", "password": "demo123"}`,
		`{}`,
	} {
		rec, body := do(t, h, jsonRequest(http.MethodPost, "/api/auth/login", payload))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, payload)
		assert.False(t, body.Success)
		assert.Equal(t, "Email ou senha inválidos", body.Message)
	}
}
