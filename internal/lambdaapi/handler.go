// Package lambdaapi exposes the action layer as an API Gateway proxy handler.
package lambdaapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/julianstephens/ecohabits/internal/actions"
	"github.com/julianstephens/ecohabits/internal/auth"
	"github.com/julianstephens/ecohabits/internal/constants"
	"github.com/julianstephens/ecohabits/internal/errors"
	"github.com/julianstephens/ecohabits/internal/logger"
	"github.com/julianstephens/ecohabits/internal/models"
)

const (
	codeInvalidRequest   = "INVALID_REQUEST"
	codeUnknownAction    = "UNKNOWN_ACTION"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	codeInternal         = "INTERNAL"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// Handler serves POST /actions/{action}.
type Handler struct {
	Actions *actions.Service
	Tokens  auth.TokenConfig
}

func New(svc *actions.Service, tokens auth.TokenConfig) *Handler {
	return &Handler{Actions: svc, Tokens: tokens}
}

// route decodes the body into the action input and runs the action.
type route func(ctx context.Context, svc *actions.Service, caller auth.Caller, body []byte) (any, int, error)

var errMalformedBody = stderrors.New("request body is not valid JSON")

func bind[In, Out any](fn func(*actions.Service, context.Context, auth.Caller, In) (actions.Result[Out], error), status func(Out) int) route {
	return func(ctx context.Context, svc *actions.Service, caller auth.Caller, body []byte) (any, int, error) {
		var in In
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &in); err != nil {
				return nil, 0, errMalformedBody
			}
		}
		res, err := fn(svc, ctx, caller, in)
		if err != nil {
			return nil, 0, err
		}
		return res, status(res.Data), nil
	}
}

func always[T any](code int) func(T) int {
	return func(T) int { return code }
}

var routes = map[string]route{
	"createHabit":  bind((*actions.Service).CreateHabit, always[actions.HabitRef](http.StatusCreated)),
	"updateHabit":  bind((*actions.Service).UpdateHabit, always[actions.HabitRef](http.StatusOK)),
	"archiveHabit": bind((*actions.Service).ArchiveHabit, always[actions.HabitRef](http.StatusOK)),
	"listMyHabits": bind((*actions.Service).ListMyHabits, always[actions.List[models.Habit]](http.StatusOK)),
	"upsertHabitLog": bind((*actions.Service).UpsertHabitLog, func(ref actions.LogRef) int {
		if ref.Mode == constants.ModeCreated {
			return http.StatusCreated
		}
		return http.StatusOK
	}),
	"listHabitLogs": bind((*actions.Service).ListHabitLogs, always[actions.List[models.HabitLog]](http.StatusOK)),
}

// Handle is the lambda.Start entry point. Failures are returned as responses,
// never as a handler error.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	name := actionName(req)
	if req.HTTPMethod != "" && req.HTTPMethod != http.MethodPost {
		return errorResponse(http.StatusMethodNotAllowed, codeMethodNotAllowed, "only POST is supported", ""), nil
	}
	rt, ok := routes[name]
	if !ok {
		return errorResponse(http.StatusNotFound, codeUnknownAction, "unknown action: "+name, ""), nil
	}

	caller, err := auth.CallerFromHeader(h.Tokens, header(req.Headers, "Authorization"))
	if err != nil {
		logger.Debug("Rejected token", "action", name, "error", err)
		return errorResponse(http.StatusUnauthorized, string(errors.KindUnauthorized), "invalid or expired token", ""), nil
	}
	if !caller.Authenticated() {
		return fromError(errors.Unauthorized()), nil
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		if body, err = base64.StdEncoding.DecodeString(req.Body); err != nil {
			return errorResponse(http.StatusBadRequest, codeInvalidRequest, "request body is not valid base64", ""), nil
		}
	}

	logger.Debug("Handling action", "action", name, "user", caller.UserID)
	data, status, err := rt(ctx, h.Actions, caller, body)
	if err != nil {
		if stderrors.Is(err, errMalformedBody) {
			return errorResponse(http.StatusBadRequest, codeInvalidRequest, err.Error(), ""), nil
		}
		return fromError(err), nil
	}
	return jsonResponse(status, data), nil
}

// actionName prefers the {action} path parameter and falls back to the last
// path segment.
func actionName(req events.APIGatewayProxyRequest) string {
	if name := req.PathParameters["action"]; name != "" {
		return name
	}
	path := strings.TrimRight(req.Path, "/")
	return path[strings.LastIndex(path, "/")+1:]
}

func header(headers map[string]string, key string) string {
	if v, ok := headers[key]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func fromError(err error) events.APIGatewayProxyResponse {
	var appErr *errors.Error
	if !stderrors.As(err, &appErr) {
		logger.Error("Action failed", "error", err)
		return errorResponse(http.StatusInternalServerError, codeInternal, "internal error", "")
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case errors.KindUnauthorized:
		status = http.StatusUnauthorized
	case errors.KindNotFound:
		status = http.StatusNotFound
	case errors.KindValidation:
		status = http.StatusBadRequest
	}
	return errorResponse(status, string(appErr.Kind), appErr.Message, appErr.Field)
}

func errorResponse(status int, code, message, field string) events.APIGatewayProxyResponse {
	return jsonResponse(status, ErrorResponse{Error: message, Code: code, Field: field})
}

func jsonResponse(status int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to serialize response", "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error","code":"INTERNAL"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(body),
	}
}
