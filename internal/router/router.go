// Package router wires the HTTP surface: the single GraphQL endpoint, a
// storage health check, and the catch-all error envelope that makes sure no
// unrecognized failure ever leaks internals.
package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/graphql-go/graphql"

	"github.com/akraevsky/bkmrks/internal/apperrors"
	"github.com/akraevsky/bkmrks/internal/gql"
	"github.com/akraevsky/bkmrks/internal/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type identityMiddleware interface {
	WithIdentity(h http.Handler) http.Handler
}

// Router handles the HTTP surface of the service.
type Router struct {
	db     pinger
	schema graphql.Schema
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type responsePayload struct {
	OK     bool                   `json:"ok"`
	Data   map[string]interface{} `json:"data"`
	Errors []apperrors.FieldError `json:"errors"`
}

func writeErrorEnvelope(response http.ResponseWriter, statusCode int, errs []apperrors.FieldError) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(statusCode)

	err := json.NewEncoder(response).Encode(responsePayload{
		OK:     false,
		Data:   map[string]interface{}{},
		Errors: errs,
	})
	if err != nil {
		logger.Log.Debugln("Error encoding the error envelope:", err)
	}
}

// PostGraphql executes a GraphQL operation. Resolver failures are serialized
// into the standard GraphQL error list, never into a transport-level error.
func (rt *Router) PostGraphql(response http.ResponseWriter, request *http.Request) {
	var gqlRequest graphqlRequest
	if err := json.NewDecoder(request.Body).Decode(&gqlRequest); err != nil {
		writeErrorEnvelope(
			response,
			http.StatusBadRequest,
			[]apperrors.FieldError{{Message: "An error occured"}},
		)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         rt.schema,
		RequestString:  gqlRequest.Query,
		OperationName:  gqlRequest.OperationName,
		VariableValues: gqlRequest.Variables,
		Context:        gql.WithResponder(request.Context(), response),
	})

	response.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(response).Encode(result); err != nil {
		logger.Log.Debugln("Error encoding the GraphQL result:", err)
	}
}

// GetPing reports storage health.
func (rt *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := rt.db.Ping(request.Context()); err != nil {
		logger.Log.Debugln("Error calling the `rt.db.Ping()`:", err)
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	response.WriteHeader(http.StatusOK)
}

// withRecover converts any panic into the generic 400 envelope so an
// unhandled error never produces a bare 500 with leaked internals.
func withRecover(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Errorln("Recovered from panic in HTTP handler:", r)
				writeErrorEnvelope(
					response,
					http.StatusBadRequest,
					[]apperrors.FieldError{{Message: "An error occured"}},
				)
			}
		}()

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}

func notFoundHandler(response http.ResponseWriter, request *http.Request) {
	writeErrorEnvelope(
		response,
		http.StatusNotFound,
		[]apperrors.FieldError{{Message: "Not found"}},
	)
}

// New assembles the chi router with logging, panic recovery and identity
// context building.
func New(db pinger, schema graphql.Schema, identity identityMiddleware) *chi.Mux {
	rt := &Router{
		db:     db,
		schema: schema,
	}

	router := chi.NewRouter()
	router.Use(logger.WithLoggingHTTPMiddleware)
	router.Use(withRecover)
	router.Use(identity.WithIdentity)

	router.Post(`/graphql`, rt.PostGraphql)
	router.Get(`/ping`, rt.GetPing)

	router.NotFound(notFoundHandler)
	router.MethodNotAllowed(notFoundHandler)

	return router
}
