package messaging

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/crediya/loans/internal/domain/loan"
	"github.com/crediya/loans/internal/infrastructure/config"
	"go.uber.org/zap"
)

// sqsAPI is the slice of the SQS client the senders use.
type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// NewSQSClient builds an SQS client for the configured region. When an
// endpoint is set (localstack) it overrides the resolved one and static
// test credentials are used.
func NewSQSClient(ctx context.Context, cfg config.SQSConfig) (*sqs.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test", "test", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// statusMessage is the flat payload the notification consumer expects.
type statusMessage struct {
	LoanID string `json:"loanId"`
	Email  string `json:"email"`
	Amount string `json:"amount"`
	State  string `json:"state"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

// SQSStatusNotifier delivers status change notifications to the
// notification queue.
type SQSStatusNotifier struct {
	client   sqsAPI
	queueURL string
	logger   *zap.Logger
}

// NewSQSStatusNotifier creates a new SQSStatusNotifier
func NewSQSStatusNotifier(client sqsAPI, queueURL string, logger *zap.Logger) *SQSStatusNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQSStatusNotifier{
		client:   client,
		queueURL: queueURL,
		logger:   logger.Named("sqs-status-notifier"),
	}
}

// Notify sends the status change to the notification queue.
func (n *SQSStatusNotifier) Notify(ctx context.Context, event loan.LoanStatusChanged) error {
	msg := statusMessage{
		LoanID: event.Loan.ID.String(),
		Email:  event.Loan.Email.Address(),
		Amount: event.Loan.Amount.String(),
		State:  event.State,
		Type:   event.TypeLoan,
		Name:   event.User.FullName(),
		Reason: event.Reason,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	out, err := n.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(n.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		n.logger.Error("failed to send status notification",
			zap.String("loan_id", msg.LoanID),
			zap.Error(err))
		return err
	}

	n.logger.Info("status notification sent",
		zap.String("loan_id", msg.LoanID),
		zap.String("state", msg.State),
		zap.Stringp("message_id", out.MessageId))
	return nil
}

// SQSDebtCapacityPublisher forwards debt capacity evaluation requests to
// the capacity queue.
type SQSDebtCapacityPublisher struct {
	client   sqsAPI
	queueURL string
	logger   *zap.Logger
}

// NewSQSDebtCapacityPublisher creates a new SQSDebtCapacityPublisher
func NewSQSDebtCapacityPublisher(client sqsAPI, queueURL string, logger *zap.Logger) *SQSDebtCapacityPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQSDebtCapacityPublisher{
		client:   client,
		queueURL: queueURL,
		logger:   logger.Named("sqs-debt-capacity"),
	}
}

// Publish sends the capacity evaluation request to the capacity queue.
func (p *SQSDebtCapacityPublisher) Publish(ctx context.Context, capacity loan.DebtCapacity) error {
	body, err := json.Marshal(capacity)
	if err != nil {
		return err
	}

	out, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		p.logger.Error("failed to publish debt capacity request",
			zap.String("loan_id", capacity.Loan.ID.String()),
			zap.Error(err))
		return err
	}

	p.logger.Info("debt capacity request published",
		zap.String("loan_id", capacity.Loan.ID.String()),
		zap.Stringp("message_id", out.MessageId))
	return nil
}

var (
	_ loan.StatusNotifier        = (*SQSStatusNotifier)(nil)
	_ loan.DebtCapacityPublisher = (*SQSDebtCapacityPublisher)(nil)
)
