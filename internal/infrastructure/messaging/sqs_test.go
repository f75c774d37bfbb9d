package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/crediya/loans/internal/domain/customer"
	"github.com/crediya/loans/internal/domain/loan"
	"github.com/crediya/loans/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSQSClient is a mock SQS client for testing
type MockSQSClient struct {
	mock.Mock
}

func (m *MockSQSClient) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.SendMessageOutput), args.Error(1)
}

var _ sqsAPI = (*MockSQSClient)(nil)

func testLoan(t *testing.T) *loan.Loan {
	t.Helper()
	l, err := loan.NewLoan(
		valueobject.MustMoney("3000"),
		valueobject.MustTermMonths(12),
		valueobject.MustEmail("maria@example.com"),
		uuid.New(),
	)
	require.NoError(t, err)
	l.ID = uuid.New()
	return l
}

func TestSQSStatusNotifier_Notify(t *testing.T) {
	event := loan.LoanStatusChanged{
		Loan:     testLoan(t),
		State:    loan.StateApproved,
		TypeLoan: "PERSONAL",
		Reason:   "income verified",
		User: customer.UserData{
			Name:     "Maria",
			LastName: "Lopez",
			Salary:   valueobject.MustMoney("2500.00"),
		},
	}

	t.Run("sends the flat payload to the notification queue", func(t *testing.T) {
		client := new(MockSQSClient)
		client.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			if aws.ToString(in.QueueUrl) != "https://sqs/notifications" {
				return false
			}
			var msg map[string]string
			if err := json.Unmarshal([]byte(aws.ToString(in.MessageBody)), &msg); err != nil {
				return false
			}
			return msg["loanId"] == event.Loan.ID.String() &&
				msg["email"] == "maria@example.com" &&
				msg["amount"] == "3000.00" &&
				msg["state"] == "APPROVED" &&
				msg["type"] == "PERSONAL" &&
				msg["name"] == "Maria Lopez" &&
				msg["reason"] == "income verified"
		})).Return(&sqs.SendMessageOutput{MessageId: aws.String("msg-1")}, nil)

		notifier := NewSQSStatusNotifier(client, "https://sqs/notifications", nil)
		err := notifier.Notify(context.Background(), event)

		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("propagates send failures", func(t *testing.T) {
		client := new(MockSQSClient)
		client.On("SendMessage", mock.Anything, mock.Anything).
			Return(nil, errors.New("queue unavailable"))

		notifier := NewSQSStatusNotifier(client, "https://sqs/notifications", nil)
		err := notifier.Notify(context.Background(), event)

		assert.EqualError(t, err, "queue unavailable")
	})
}

func TestSQSDebtCapacityPublisher_Publish(t *testing.T) {
	l := testLoan(t)
	capacity := loan.DebtCapacity{
		Loan: l,
		User: customer.UserData{
			Name:     "Maria",
			LastName: "Lopez",
			Email:    l.Email,
			Salary:   valueobject.MustMoney("2500.00"),
		},
		ApprovedLoans: []loan.LoanApproved{
			{
				Amount:       valueobject.MustMoney("1000"),
				TermMonths:   valueobject.MustTermMonths(12),
				InterestRate: valueobject.MustInterestRate("12"),
			},
		},
	}

	t.Run("publishes the capacity request as JSON", func(t *testing.T) {
		client := new(MockSQSClient)
		client.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			if aws.ToString(in.QueueUrl) != "https://sqs/capacity" {
				return false
			}
			var decoded loan.DebtCapacity
			if err := json.Unmarshal([]byte(aws.ToString(in.MessageBody)), &decoded); err != nil {
				return false
			}
			return decoded.Loan != nil &&
				decoded.Loan.ID == l.ID &&
				decoded.User.Name == "Maria" &&
				len(decoded.ApprovedLoans) == 1
		})).Return(&sqs.SendMessageOutput{MessageId: aws.String("msg-2")}, nil)

		publisher := NewSQSDebtCapacityPublisher(client, "https://sqs/capacity", nil)
		err := publisher.Publish(context.Background(), capacity)

		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("propagates send failures so the save rolls back", func(t *testing.T) {
		client := new(MockSQSClient)
		client.On("SendMessage", mock.Anything, mock.Anything).
			Return(nil, errors.New("queue unavailable"))

		publisher := NewSQSDebtCapacityPublisher(client, "https://sqs/capacity", nil)
		err := publisher.Publish(context.Background(), capacity)

		assert.EqualError(t, err, "queue unavailable")
	})
}
