// Command dorifit-lambda serves the dorifit API from an AWS Lambda function
// URL. Master data is read from the storage configured in the environment
// and cached across warm invocations.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/dorifit/dorifit/internal/api"
	"github.com/dorifit/dorifit/internal/runner"
	"github.com/dorifit/dorifit/internal/storage"
	"github.com/dorifit/dorifit/pkg/config"
	"github.com/dorifit/dorifit/pkg/scoring"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// newHandler builds the API routes served by the function.
func newHandler(ctx context.Context) (http.Handler, error) {
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = config.BackendS3
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc := runner.NewService(nil, store, scoring.NewOptimizer(scoring.Options{Workers: cfg.Optimizer.Workers}))
	h := api.NewHandler(svc, nil, store, nil)
	h.Options.Accuracy = cfg.Optimizer.Accuracy
	h.Options.Fever = cfg.Optimizer.Fever
	h.Options.Difficulty = cfg.Song.Difficulty
	h.Options.MasterVersion = os.Getenv("MASTER_VERSION")

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return api.APIKeyAuth(os.Getenv("API_KEY"))(mux), nil
}

// serveEvent replays a function URL request through an http.Handler.
func serveEvent(ctx context.Context, h http.Handler, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	path := event.RawPath
	if path == "" {
		path = "/"
	}
	if event.RawQueryString != "" {
		path += "?" + event.RawQueryString
	}
	method := event.RequestContext.HTTP.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, path, strings.NewReader(body))
	if err != nil {
		return errResp(400, "invalid request: "+err.Error())
	}
	for k, v := range event.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	headers := make(map[string]string, len(rec.Header()))
	for k := range rec.Header() {
		headers[k] = rec.Header().Get(k)
	}
	return events.LambdaFunctionURLResponse{
		StatusCode: rec.Code,
		Headers:    headers,
		Body:       rec.Body.String(),
	}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	h, err := newHandler(context.Background())
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	lambda.Start(func(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
		return serveEvent(ctx, h, event)
	})
}
