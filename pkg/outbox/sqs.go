package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
)

// SQSAPI captures the subset of the SQS client the enqueuer uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// PayoutMessage is the queue message body carrying a payout reference.
type PayoutMessage struct {
	PayoutId string `json:"payout_id"`
}

// SQSEnqueuer implements the Enqueuer interface using AWS SQS.
type SQSEnqueuer struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSEnqueuer creates a new SQSEnqueuer.
func NewSQSEnqueuer(client SQSAPI, queueURL string) *SQSEnqueuer {
	return &SQSEnqueuer{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Enqueuer = (*SQSEnqueuer)(nil)

// EnqueuePayout sends the payout reference to the SQS queue consumed by the
// payout worker.
func (s *SQSEnqueuer) EnqueuePayout(ctx context.Context, payout *models.Payout) error {
	body, err := json.Marshal(PayoutMessage{PayoutId: payout.PayoutId})
	if err != nil {
		return fmt.Errorf("failed to marshal payout message for SQS: %w", err)
	}

	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.QueueURL),
		MessageBody: aws.String(string(body)),
	})

	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}
