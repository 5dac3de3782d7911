package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

var baseHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
}

func headers() map[string]string {
	h := make(map[string]string, len(baseHeaders))
	for k, v := range baseHeaders {
		h[k] = v
	}
	return h
}

func jsonResp(status int, v any) events.APIGatewayV2HTTPResponse {
	b, _ := json.Marshal(v)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    headers(),
		Body:       string(b),
	}
}

func jsonOK(v any) events.APIGatewayV2HTTPResponse {
	return jsonResp(http.StatusOK, v)
}

// softFail is the 200-level failure envelope: callers treat any response
// without success:true as non-authoritative, so transport status stays 200.
func softFail(msg string, extra map[string]any) events.APIGatewayV2HTTPResponse {
	body := map[string]any{
		"success":  false,
		"error":    msg,
		"fallback": true,
	}
	for k, v := range extra {
		body[k] = v
	}
	return jsonOK(body)
}

func badRequest(msg string) events.APIGatewayV2HTTPResponse {
	return jsonResp(http.StatusBadRequest, map[string]any{
		"success": false,
		"error":   msg,
	})
}

func internalError(msg string, err error) events.APIGatewayV2HTTPResponse {
	body := map[string]any{
		"success": false,
		"error":   msg,
	}
	if err != nil {
		body["details"] = err.Error()
	}
	return jsonResp(http.StatusInternalServerError, body)
}

// gatePost enforces the per-endpoint method contract: OPTIONS answers the
// CORS preflight, anything that is not POST gets a 405.
func gatePost(req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, bool) {
	switch strings.ToUpper(req.RequestContext.HTTP.Method) {
	case http.MethodOptions:
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusOK,
			Headers:    headers(),
		}, false
	case http.MethodPost:
		return events.APIGatewayV2HTTPResponse{}, true
	default:
		return jsonResp(http.StatusMethodNotAllowed, map[string]any{
			"success": false,
			"error":   "method not allowed",
		}), false
	}
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
