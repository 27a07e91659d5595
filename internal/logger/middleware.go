// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	forwardedHostHeaderKey = "x-forwarded-host"
	forwardedForHeaderKey  = "x-forwarded-for"
	requestIDHeaderName    = "x-request-id"

	IncomingRequestMessage  = "incoming request"
	RequestCompletedMessage = "request completed"

	redactedValue = "***"
)

// redactedQueryKeys holds the query parameter names whose values must never reach the logs.
var redactedQueryKeys = map[string]struct{}{
	"password":      {},
	"pwd":           {},
	"token":         {},
	"access_token":  {},
	"authorization": {},
	"secret":        {},
	"apikey":        {},
	"api_key":       {},
}

type fiberLoggingContext struct {
	c          *fiber.Ctx
	handlerErr error
}

type loggingContext interface {
	Request() requestLoggingContext
	Response() responseLoggingContext
}

type requestLoggingContext interface {
	GetHeader(string) string
	Path() string
	Query() map[string]string
	Host() string
	Method() string
}

type responseLoggingContext interface {
	BodySize() int
	StatusCode() int
}

// http is the struct of the log formatter.
type http struct {
	Request  *request  `json:"request,omitempty"`
	Response *response `json:"response,omitempty"`
}

type userAgent struct {
	Original string `json:"original,omitempty"`
}

// request contains the items of request info log.
type request struct {
	Method    string    `json:"method,omitempty"`
	UserAgent userAgent `json:"userAgent"`
}

type responseBody struct {
	Bytes int `json:"bytes,omitempty"`
}

// response contains the items of response info log.
type response struct {
	StatusCode int          `json:"statusCode,omitempty"`
	Body       responseBody `json:"body"`
}

// host has the host information.
type host struct {
	Hostname      string `json:"hostname,omitempty"`
	ForwardedHost string `json:"forwardedHost,omitempty"`
	IP            string `json:"ip,omitempty"`
}

// url info
type url struct {
	Path  string            `json:"path,omitempty"`
	Query map[string]string `json:"query,omitempty"`
}

func removePort(host string) string {
	return strings.Split(host, ":")[0]
}

// redactQuery replaces the values of sensitive query parameters before logging.
func redactQuery(query map[string]string) map[string]string {
	if len(query) == 0 {
		return nil
	}

	redacted := make(map[string]string, len(query))
	for key, value := range query {
		if _, found := redactedQueryKeys[strings.ToLower(key)]; found {
			value = redactedValue
		}
		redacted[key] = value
	}
	return redacted
}

func GetReqID(ctx loggingContext) string {
	if requestID := ctx.Request().GetHeader(requestIDHeaderName); requestID != "" {
		return requestID
	}
	// Generate a random uuid string. e.g. 16c9c1f2-c001-40d3-bbfe-48857367e7b5
	requestID, err := uuid.NewRandom()
	if err != nil {
		panic(fmt.Errorf("error generating request id: %w", err))
	}
	return requestID.String()
}

func logIncomingRequest(ctx loggingContext, logger Logger) {
	logger.
		WithName("incoming_request").
		Trace(IncomingRequestMessage,
			"http", http{
				Request: &request{
					Method: ctx.Request().Method(),
					UserAgent: userAgent{
						Original: ctx.Request().GetHeader("user-agent"),
					},
				},
			},
			"url", url{Path: ctx.Request().Path(), Query: redactQuery(ctx.Request().Query())},
			"host", host{
				ForwardedHost: ctx.Request().GetHeader(forwardedHostHeaderKey),
				Hostname:      removePort(ctx.Request().Host()),
				IP:            ctx.Request().GetHeader(forwardedForHeaderKey),
			},
		)
}

func logRequestCompleted(ctx loggingContext, logger Logger, startTime time.Time) {
	logger.
		WithName("request_completed").
		Info(RequestCompletedMessage,
			"http", http{
				Request: &request{
					Method: ctx.Request().Method(),
					UserAgent: userAgent{
						Original: ctx.Request().GetHeader("user-agent"),
					},
				},
				Response: &response{
					StatusCode: ctx.Response().StatusCode(),
					Body: responseBody{
						Bytes: ctx.Response().BodySize(),
					},
				},
			},
			"url", url{Path: ctx.Request().Path(), Query: redactQuery(ctx.Request().Query())},
			"host", host{
				ForwardedHost: ctx.Request().GetHeader(forwardedHostHeaderKey),
				Hostname:      removePort(ctx.Request().Host()),
				IP:            ctx.Request().GetHeader(forwardedForHeaderKey),
			},
			"responseTime", float64(time.Since(startTime).Milliseconds()),
		)
}

func (flc *fiberLoggingContext) Request() requestLoggingContext {
	return flc
}

func (flc *fiberLoggingContext) Response() responseLoggingContext {
	return flc
}

func (flc *fiberLoggingContext) GetHeader(key string) string {
	return flc.c.Get(key, "")
}

func (flc *fiberLoggingContext) Path() string {
	return flc.c.Path()
}

func (flc *fiberLoggingContext) Query() map[string]string {
	return flc.c.Queries()
}

func (flc *fiberLoggingContext) Host() string {
	return string(flc.c.Request().Host())
}

func (flc *fiberLoggingContext) Method() string {
	return flc.c.Method()
}

func (flc fiberLoggingContext) getFiberError() *fiber.Error {
	if fiberErr, ok := flc.handlerErr.(*fiber.Error); flc.handlerErr != nil && ok {
		return fiberErr
	}
	return nil
}

func (flc *fiberLoggingContext) setError(err error) {
	flc.handlerErr = err
}

func (flc *fiberLoggingContext) BodySize() int {
	if fiberErr := flc.getFiberError(); fiberErr != nil {
		return len(fiberErr.Error())
	}

	if content := flc.c.GetRespHeader("Content-Length"); content != "" {
		if length, err := strconv.Atoi(content); err == nil {
			return length
		}
	}
	return len(flc.c.Response().Body())
}

func (flc *fiberLoggingContext) StatusCode() int {
	if fiberErr := flc.getFiberError(); fiberErr != nil {
		return fiberErr.Code
	}

	return flc.c.Response().StatusCode()
}

// RequestMiddlewareLogger is a fiber middleware to log all requests.
// It logs the incoming request and when request is completed, adding latency
// of the request. The user context of handled requests derives from ctx with
// the request scoped logger attached, so handlers observe the server
// lifecycle through their context.
func RequestMiddlewareLogger(ctx context.Context, logger Logger, excludedPrefix []string) func(*fiber.Ctx) error {
	return func(fiberCtx *fiber.Ctx) error {
		fiberLoggingContext := &fiberLoggingContext{c: fiberCtx}

		for _, prefix := range excludedPrefix {
			if strings.HasPrefix(fiberLoggingContext.Request().Path(), prefix) {
				return fiberCtx.Next()
			}
		}

		start := time.Now()

		requestID := GetReqID(fiberLoggingContext)
		loggerWithReqID := logger.WithName("request").WithName(requestID)

		fiberCtx.SetUserContext(WithContext(ctx, loggerWithReqID))

		logIncomingRequest(fiberLoggingContext, loggerWithReqID)
		err := fiberCtx.Next()
		fiberLoggingContext.setError(err)

		logRequestCompleted(fiberLoggingContext, loggerWithReqID, start)

		return err
	}
}
