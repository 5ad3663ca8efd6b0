package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/storecart/go-cart-pricing/internal/awsx"
)

func main() {
	ctx := context.Background()
	clients, err := awsx.NewClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	processor := NewProcessor(clients, os.Getenv("IDEMPOTENCY_TABLE"), os.Getenv("ORDERS_TABLE"))

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_id":"ORD-0","idempotency_key":"local-key-1"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := processor.Handle(ctx, event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(processor.Handle)
}
