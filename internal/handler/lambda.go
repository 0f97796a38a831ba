package handler

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

// HandleAPIGateway adapts an API Gateway proxy event. Handler failures are
// reported in the response, so the returned error is always nil.
func (h *QueryHandler) HandleAPIGateway(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp := h.Handle(ctx, event.QueryStringParameters)
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}
