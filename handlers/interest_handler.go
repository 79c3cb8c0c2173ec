package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/satyajeet03/rentApp/authorization"
	"github.com/satyajeet03/rentApp/domain"
	"github.com/satyajeet03/rentApp/errors"
	application "github.com/satyajeet03/rentApp/service"
)

type InterestHandler struct {
	service *application.InterestService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewInterestHandler(service *application.InterestService, tracer trace.Tracer, logger *logrus.Logger) *InterestHandler {
	return &InterestHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

// Init registers the wishlist routes, all protected. Remove is reachable by
// POST and DELETE because older clients used both.
func (handler *InterestHandler) Init(router *mux.Router, protect ...mux.MiddlewareFunc) {
	router.HandleFunc("/add", handler.Add).Methods("POST")
	router.HandleFunc("/remove", handler.Remove).Methods("POST", "DELETE")
	router.HandleFunc("/check/{propertyId}", handler.Check).Methods("GET")
	router.HandleFunc("", handler.GetMine).Methods("GET")
	router.Use(protect...)
}

type interestRequest struct {
	PropertyID string `json:"propertyId"`
}

func (handler *InterestHandler) Add(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "InterestHandler.Add")
	defer span.End()

	var request interestRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		writeError(rw, http.StatusBadRequest, errors.InvalidRequestFormatError)
		return
	}

	caller := authorization.UserFromContext(ctx)
	interest, err := handler.service.Add(ctx, caller, request.PropertyID)
	if err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}

	rw.WriteHeader(http.StatusCreated)
	jsonResponse(interest, rw)
}

func (handler *InterestHandler) Remove(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "InterestHandler.Remove")
	defer span.End()

	var request interestRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		writeError(rw, http.StatusBadRequest, errors.InvalidRequestFormatError)
		return
	}

	caller := authorization.UserFromContext(ctx)
	if err := handler.service.Remove(ctx, caller, request.PropertyID); err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{"success": true, "message": "Interest removed"}, rw)
}

func (handler *InterestHandler) Check(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "InterestHandler.Check")
	defer span.End()

	caller := authorization.UserFromContext(ctx)
	interested, err := handler.service.Check(ctx, caller, mux.Vars(req)["propertyId"])
	if err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}

	jsonResponse(map[string]bool{"interested": interested}, rw)
}

func (handler *InterestHandler) GetMine(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "InterestHandler.GetMine")
	defer span.End()

	caller := authorization.UserFromContext(ctx)
	interests, err := handler.service.GetMine(ctx, caller)
	if err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}
	if interests == nil {
		interests = []*domain.ResolvedInterest{}
	}
	jsonResponse(interests, rw)
}
