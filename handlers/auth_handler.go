package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/satyajeet03/rentApp/domain"
	"github.com/satyajeet03/rentApp/errors"
	application "github.com/satyajeet03/rentApp/service"
)

type AuthHandler struct {
	service *application.AuthService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewAuthHandler(service *application.AuthService, tracer trace.Tracer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *AuthHandler) Init(router *mux.Router) {
	router.HandleFunc("/register", handler.Register).Methods("POST")
	router.HandleFunc("/login", handler.Login).Methods("POST")
}

type registerRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     domain.UserRole `json:"role"`
	Phone    string          `json:"phone"`
}

type sessionResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (handler *AuthHandler) Register(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Register")
	defer span.End()

	var request registerRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		writeError(rw, http.StatusBadRequest, errors.InvalidRequestFormatError)
		return
	}

	user := &domain.User{
		Name:     request.Name,
		Email:    request.Email,
		Password: request.Password,
		Role:     request.Role,
		Phone:    request.Phone,
	}

	registered, token, err := handler.service.Register(ctx, user)
	if err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}

	rw.WriteHeader(http.StatusCreated)
	jsonResponse(sessionResponse{User: registered, Token: token}, rw)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *AuthHandler) Login(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Login")
	defer span.End()

	var request loginRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		writeError(rw, http.StatusBadRequest, errors.InvalidRequestFormatError)
		return
	}
	if request.Email == "" || request.Password == "" {
		writeError(rw, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, token, err := handler.service.Login(ctx, request.Email, request.Password)
	if err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}

	jsonResponse(sessionResponse{User: user, Token: token}, rw)
}
