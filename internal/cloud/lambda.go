package cloud

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

type lambdaAPI interface {
	Invoke(ctx context.Context, in *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaClient triggers the analytics pipeline function.
type LambdaClient struct {
	svc      lambdaAPI
	function string
}

// NewLambdaClient creates a new Lambda client instance
func NewLambdaClient(ctx context.Context, region, function string) (*LambdaClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &LambdaClient{svc: lambda.NewFromConfig(cfg), function: function}, nil
}

// AnalyticsProcessingPayload is the input of the analytics function.
type AnalyticsProcessingPayload struct {
	Date string `json:"date"`
}

// InvokeAnalyticsAsync starts the analytics function without waiting for it.
func (c *LambdaClient) InvokeAnalyticsAsync(ctx context.Context, date string) error {
	payload, err := json.Marshal(AnalyticsProcessingPayload{Date: date})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	out, err := c.svc.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(c.function),
		Payload:        payload,
		InvocationType: types.InvocationTypeEvent,
	})
	if err != nil {
		return fmt.Errorf("failed to invoke Lambda: %w", err)
	}
	if out.FunctionError != nil {
		return fmt.Errorf("Lambda function error: %s", aws.ToString(out.FunctionError))
	}
	return nil
}
