// crmsync-lambda exposes the CRM sync dispatcher as an HTTP-triggered
// function, mirroring how the hosted platform invoked it. The same handler
// also serves POST /crm/sync on the API router.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kiwiclean/housewash-platform/internal/crm"
	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Authorization, Content-Type",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
	"Content-Type":                 "application/json",
}

func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"))

	var store crm.RecordAppender
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		pool, err := pgxpool.New(context.Background(), databaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		store = crm.NewSyncStore(pool)
	} else {
		logger.Warn("DATABASE_URL not set, sync attempts will not be recorded")
	}

	client := crm.NewClient(os.Getenv("CRM_API_URL"), os.Getenv("CRM_API_KEY"), logger)
	handler := crm.NewHandler(client, store, nil, logger)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		// Preflight is answered before any handler logic.
		if req.HTTPMethod == http.MethodOptions {
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusNoContent,
				Headers:    corsHeaders,
			}, nil
		}

		status, resp := handler.Process(ctx, []byte(req.Body))
		body, err := json.Marshal(resp)
		if err != nil {
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusInternalServerError,
				Headers:    corsHeaders,
				Body:       `{"success":false,"error":"internal error"}`,
			}, nil
		}
		return events.APIGatewayProxyResponse{
			StatusCode: status,
			Headers:    corsHeaders,
			Body:       string(body),
		}, nil
	})
}
