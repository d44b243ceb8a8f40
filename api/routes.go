package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Umesh-Verma07/AynaForm/internal/auth"
	"github.com/Umesh-Verma07/AynaForm/internal/config"
	"github.com/Umesh-Verma07/AynaForm/internal/services"
	"github.com/Umesh-Verma07/AynaForm/pkg/repository"
)

// Store is the persistence the API is served from.
type Store interface {
	repository.UserRepo
	repository.FormRepo
	repository.ResponseRepo
}

// Deps holds the services behind the HTTP handlers.
type Deps struct {
	Auth      *services.AuthService
	Forms     *services.FormService
	Responses *services.ResponseService
	Tokens    TokenParser
	Validator *Validator
}

// NewDeps wires the services over store according to cfg.
func NewDeps(cfg *config.Config, store Store, log *slog.Logger) (*Deps, error) {
	matching, err := services.ParseAnswerMatching(cfg.Responses.AnswerMatching)
	if err != nil {
		return nil, err
	}
	validator, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("load request schemas: %w", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenDuration)
	forms := services.NewFormService(store, store, log)
	return &Deps{
		Auth:  services.NewAuthService(store, auth.NewHasher(cfg.BcryptCost), tokens, log),
		Forms: forms,
		Responses: services.NewResponseService(forms, store, services.ResponseOptions{
			Matching: matching,
			Strict:   cfg.Responses.StrictAnswers,
		}, log),
		Tokens:    tokens,
		Validator: validator,
	}, nil
}

func SetupRoutes(d *Deps, version, buildTime string) http.Handler {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(d.Auth, d.Validator)
	formsHandler := NewFormsHandler(d.Forms, d.Validator)
	responsesHandler := NewResponsesHandler(d.Responses, d.Validator)
	protect := JWTAuthMiddleware(d.Tokens)

	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", systemHandler.HealthHandler).Methods(http.MethodGet)

	// Open endpoints
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/forms/{id}", formsHandler.GetForm).Methods(http.MethodGet)
	api.HandleFunc("/forms/{id}/responses", responsesHandler.Submit).Methods(http.MethodPost)

	// Owner endpoints
	api.Handle("/forms", protect(http.HandlerFunc(formsHandler.CreateForm))).Methods(http.MethodPost)
	api.Handle("/forms", protect(http.HandlerFunc(formsHandler.ListForms))).Methods(http.MethodGet)
	api.Handle("/forms/{id}", protect(http.HandlerFunc(formsHandler.UpdateForm))).Methods(http.MethodPut)
	api.Handle("/forms/{id}", protect(http.HandlerFunc(formsHandler.DeleteForm))).Methods(http.MethodDelete)
	api.Handle("/forms/{id}/responses", protect(http.HandlerFunc(responsesHandler.List))).Methods(http.MethodGet)
	api.Handle("/forms/{id}/summary", protect(http.HandlerFunc(responsesHandler.Summary))).Methods(http.MethodGet)
	api.Handle("/forms/{id}/export", protect(http.HandlerFunc(responsesHandler.Export))).Methods(http.MethodGet)
	api.Handle("/forms/{id}/questions/{qid}/responses", protect(http.HandlerFunc(formsHandler.DeleteQuestionAnswers))).Methods(http.MethodDelete)

	return CORSMiddleware(r)
}
