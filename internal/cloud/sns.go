package cloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog/log"
)

type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient wraps AWS SNS client for notification operations
type SNSClient struct {
	svc      snsAPI
	topicArn string
}

// NewSNSClient creates a new SNS client instance
func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &SNSClient{svc: sns.NewFromConfig(cfg), topicArn: topicArn}, nil
}

// SendAlert publishes a message to the configured topic.
func (c *SNSClient) SendAlert(ctx context.Context, subject, message string) error {
	result, err := c.svc.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}

	log.Info().Str("message_id", aws.ToString(result.MessageId)).Msg("notification sent")
	return nil
}

// RoutineStatus is the final state of one dashboard routine.
type RoutineStatus struct {
	Routine string
	State   string
	Err     error
}

// SnapshotMessage formats the notification for an uploaded snapshot.
func SnapshotMessage(snap *Snapshot, statuses []RoutineStatus, takenAt time.Time) (subject, message string) {
	failed := 0
	var b strings.Builder
	b.WriteString("Dashboard Snapshot\n\n")
	fmt.Fprintf(&b, "Time: %s\n", takenAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Object: %s\n\n", snap.Key)
	for _, s := range statuses {
		if s.Err != nil {
			failed++
			fmt.Fprintf(&b, "- %s: %s (%v)\n", s.Routine, s.State, s.Err)
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", s.Routine, s.State)
	}
	fmt.Fprintf(&b, "\nDownload (valid %s): %s\n", SnapshotURLExpiry, snap.URL)

	subject = "ONEA Dashboard Snapshot"
	if failed > 0 {
		subject = fmt.Sprintf("ONEA Dashboard Snapshot: %d/%d sections failed", failed, len(statuses))
	}
	return subject, b.String()
}

// SendSnapshotReport announces an uploaded snapshot.
func (c *SNSClient) SendSnapshotReport(ctx context.Context, snap *Snapshot, statuses []RoutineStatus, takenAt time.Time) error {
	subject, message := SnapshotMessage(snap, statuses, takenAt)
	return c.SendAlert(ctx, subject, message)
}
