package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/satyajeet03/rentApp/authorization"
	"github.com/satyajeet03/rentApp/domain"
	"github.com/satyajeet03/rentApp/errors"
	application "github.com/satyajeet03/rentApp/service"
)

type PropertyHandler struct {
	service *application.PropertyService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewPropertyHandler(service *application.PropertyService, tracer trace.Tracer, logger *logrus.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

// Init registers the property routes. Mutations and the owner listing get
// the protection chain (auth + role policy); browsing stays public.
func (handler *PropertyHandler) Init(router *mux.Router, protect ...mux.MiddlewareFunc) {
	getProperties := router.Methods(http.MethodGet).Subrouter()
	getProperties.HandleFunc("", handler.GetAll)
	getProperties.HandleFunc("/search", handler.Search)

	getOwnerProperties := router.Methods(http.MethodGet).Subrouter()
	getOwnerProperties.HandleFunc("/owner/properties", handler.GetOwnerProperties)
	getOwnerProperties.Use(protect...)

	getProperty := router.Methods(http.MethodGet).Subrouter()
	getProperty.HandleFunc("/{id}/images", handler.GetImages)
	getProperty.HandleFunc("/{id}", handler.GetByID)

	createProperty := router.Methods(http.MethodPost).Subrouter()
	createProperty.HandleFunc("/createProperties", handler.Create)
	createProperty.Use(protect...)

	updateProperty := router.Methods(http.MethodPut).Subrouter()
	updateProperty.HandleFunc("/{id}", handler.Update)
	updateProperty.Use(protect...)

	deleteProperty := router.Methods(http.MethodDelete).Subrouter()
	deleteProperty.HandleFunc("/{id}", handler.Delete)
	deleteProperty.Use(protect...)
}

func parseFilter(req *http.Request) *domain.PropertyFilter {
	query := req.URL.Query()
	filter := &domain.PropertyFilter{
		Type:      query.Get("type"),
		City:      query.Get("city"),
		State:     query.Get("state"),
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
	}

	if raw := query.Get("available"); raw != "" {
		available := raw == "true"
		filter.Available = &available
	}
	if raw := query.Get("minPrice"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &value
		}
	}
	if raw := query.Get("maxPrice"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &value
		}
	}
	if raw := query.Get("page"); raw != "" {
		filter.Page, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw := query.Get("limit"); raw != "" {
		filter.Limit, _ = strconv.ParseInt(raw, 10, 64)
	}

	return filter
}

func (handler *PropertyHandler) GetAll(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PropertyHandler.GetAll")
	defer span.End()

	page, err := handler.service.GetPage(ctx, parseFilter(req))
	if err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}
	jsonResponse(page, rw)
}

func (handler *PropertyHandler) Search(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PropertyHandler.Search")
	defer span.End()

	query := req.URL.Query().Get("q")
	if query == "" {
		query = req.URL.Query().Get("query")
	}
	if query == "" {
		writeError(rw, http.StatusBadRequest, errors.SearchQueryRequired)
		return
	}

	properties, err := handler.service.Search(ctx, query)
	if err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}
	if properties == nil {
		properties = []*domain.Property{}
	}
	jsonResponse(properties, rw)
}

func (handler *PropertyHandler) GetByID(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PropertyHandler.GetByID")
	defer span.End()

	id := mux.Vars(req)["id"]
	property, err := handler.service.Get(ctx, id)
	if err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}
	jsonResponse(property, rw)
}

func (handler *PropertyHandler) GetImages(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PropertyHandler.GetImages")
	defer span.End()

	urls, err := handler.service.GetImages(ctx, mux.Vars(req)["id"])
	if err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}
	if urls == nil {
		urls = []string{}
	}
	jsonResponse(map[string][]string{"urls": urls}, rw)
}

func (handler *PropertyHandler) GetOwnerProperties(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PropertyHandler.GetOwnerProperties")
	defer span.End()

	caller := authorization.UserFromContext(ctx)
	properties, err := handler.service.GetByOwner(ctx, caller.ID)
	if err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}
	if properties == nil {
		properties = []*domain.Property{}
	}
	jsonResponse(properties, rw)
}

type createPropertyRequest struct {
	domain.Property
	Available *bool           `json:"available"`
	Owner     json.RawMessage `json:"owner"`
}

func (handler *PropertyHandler) Create(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PropertyHandler.Create")
	defer span.End()

	var request createPropertyRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		writeError(rw, http.StatusBadRequest, errors.InvalidRequestFormatError)
		return
	}

	property := request.Property
	// listings default to available unless the payload says otherwise
	property.Available = request.Available == nil || *request.Available

	caller := authorization.UserFromContext(ctx)
	created, err := handler.service.Create(ctx, caller, &property)
	if err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}

	rw.WriteHeader(http.StatusCreated)
	jsonResponse(created, rw)
}

func (handler *PropertyHandler) Update(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PropertyHandler.Update")
	defer span.End()

	var patch domain.PropertyPatch
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		writeError(rw, http.StatusBadRequest, errors.InvalidRequestFormatError)
		return
	}

	caller := authorization.UserFromContext(ctx)
	property, err := handler.service.Update(ctx, mux.Vars(req)["id"], caller, &patch)
	if err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}
	jsonResponse(property, rw)
}

func (handler *PropertyHandler) Delete(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PropertyHandler.Delete")
	defer span.End()

	caller := authorization.UserFromContext(ctx)
	if err := handler.service.Delete(ctx, mux.Vars(req)["id"], caller); err != nil {
		writeServiceError(rw, handler.logger, err)
		return
	}
	jsonResponse(map[string]string{"message": "Property removed"}, rw)
}
