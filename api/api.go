package api

import (
	"encoding/json"
	"net/http"

	"github.com/0xcafe-io/iz"
	"github.com/fatali-fataliyev/club_treasury/internal/auth"
	"github.com/fatali-fataliyev/club_treasury/internal/budget"
)

type Api struct {
	Service *budget.Treasury
}

func NewApi(service *budget.Treasury) *Api {
	return &Api{
		Service: service,
	}
}

func (api *Api) LoginHandler(r *iz.Request) iz.Responder {
	var loginRequest LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginRequest); err != nil {
		return iz.Respond().Status(400).JSON(ErrorResponse{Error: "phone number is required"})
	}

	token, err := api.Service.Login(r.Context(), loginRequest.PhoneNumber)
	if err != nil {
		status := httpStatusFromError(err)
		if status >= 500 {
			logFor(r.Context()).WithError(err).Error("login failed")
		}
		return iz.Respond().Status(status).JSON(ErrorResponse{Error: clientMessage(err, "failed to log in")})
	}

	response := LoginResponse{
		Success:      true,
		SessionToken: token,
		PhoneNumber:  loginRequest.PhoneNumber,
		Message:      "You've logged in successfully!",
	}
	return iz.Respond().Status(200).JSON(response)
}

func (api *Api) CheckSessionHandler(r *iz.Request) iz.Responder {
	var checkRequest CheckSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&checkRequest); err != nil {
		return iz.Respond().Status(400).JSON(ErrorResponse{Error: "session token is required"})
	}

	session, err := api.Service.CheckSession(r.Context(), checkRequest.SessionToken)
	if err != nil {
		status := httpStatusFromError(err)
		if status >= 500 {
			logFor(r.Context()).WithError(err).Error("session check failed")
		}
		return iz.Respond().Status(status).JSON(ErrorResponse{Error: clientMessage(err, "failed to verify session")})
	}

	response := CheckSessionResponse{
		Success:         true,
		PhoneNumber:     session.PhoneNumber,
		AuthenticatedAt: session.AuthenticatedAt.UnixMilli(),
	}
	return iz.Respond().Status(200).JSON(response)
}

func (api *Api) ListTransactionsHandler(r *iz.Request) iz.Responder {
	filter, err := budget.ParseTypeFilter(r.URL.Query().Get("type"))
	if err != nil {
		return iz.Respond().Status(400).JSON(ListTransactionResponse{
			Error:        clientMessage(err, "invalid filter"),
			Transactions: []TransactionItem{},
		})
	}

	ts, err := api.Service.ListTransactions(r.Context(), filter)
	if err != nil {
		logFor(r.Context()).WithError(err).Error("failed to list transactions")
		return iz.Respond().Status(500).JSON(ListTransactionResponse{
			Error:        "Failed to read transactions",
			Transactions: []TransactionItem{},
		})
	}

	tsForHttp := make([]TransactionItem, 0, len(ts))
	for _, t := range ts {
		tsForHttp = append(tsForHttp, TransactionToHttp(t))
	}
	return iz.Respond().Status(200).JSON(ListTransactionResponse{
		Success:      true,
		Transactions: tsForHttp,
	})
}

func (api *Api) SummaryHandler(r *iz.Request) iz.Responder {
	summary, err := api.Service.Summary(r.Context())
	if err != nil {
		logFor(r.Context()).WithError(err).Error("failed to summarize transactions")
		return iz.Respond().Status(500).JSON(SummaryResponse{
			Error:   "Failed to read transactions",
			Summary: SummaryToHttp(budget.Summarize(nil)),
		})
	}
	return iz.Respond().Status(200).JSON(SummaryResponse{
		Success: true,
		Summary: SummaryToHttp(summary),
	})
}

func (api *Api) AllowedPhonesHandler(r *iz.Request) iz.Responder {
	phones, err := api.Service.AllowedPhones(r.Context())
	if err != nil {
		logFor(r.Context()).WithError(err).Error("failed to read allowed phones")
		return iz.Respond().Status(500).JSON(AllowedPhonesResponse{
			Error:         "Failed to read allowed phone numbers",
			AllowedPhones: []auth.AllowedPhone{},
		})
	}
	return iz.Respond().Status(200).JSON(AllowedPhonesResponse{
		Success:       true,
		AllowedPhones: phones,
	})
}

func HealthHandler(r *iz.Request) iz.Responder {
	return iz.Respond().Status(200).JSON(map[string]string{"status": "ok"})
}

// Routes registers every endpoint on a new mux wrapped with trace ids.
func Routes(api *Api) http.Handler {
	server := http.NewServeMux()

	// AUTH ENDPOINTS.
	server.HandleFunc("POST /api/auth/login", iz.Bind(api.LoginHandler))                // Login with phone number
	server.HandleFunc("POST /api/auth/check-session", iz.Bind(api.CheckSessionHandler)) // Validate session token
	server.HandleFunc("GET /api/auth/allowed-phones", iz.Bind(api.AllowedPhonesHandler)) // Allow-list introspection

	// TRANSACTION ENDPOINTS.
	server.HandleFunc("GET /api/transactions", iz.Bind(api.ListTransactionsHandler)) // List transactions, ?type=income|expense
	server.HandleFunc("GET /api/transactions/summary", iz.Bind(api.SummaryHandler))  // Dashboard totals

	server.HandleFunc("GET /healthz", iz.Bind(HealthHandler))

	return WithTraceID(server)
}
