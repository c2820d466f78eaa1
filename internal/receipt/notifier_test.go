package receipt

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vestahome/designer-hub/internal/model"
	"github.com/vestahome/designer-hub/pkg/postmark"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, email postmark.Email) (*postmark.SendResponse, error) {
	args := m.Called(ctx, email)
	resp, _ := args.Get(0).(*postmark.SendResponse)
	return resp, args.Error(1)
}

func toAddr(addr string) any {
	return mock.MatchedBy(func(e postmark.Email) bool { return e.To == addr })
}

var sample = model.Receipt{
	SubmitterEmail: "jane@vestahome.com",
	ProjectID:      "VH-2025-001",
	Market:         "Los Angeles",
}

func TestNotifyAllSucceed(t *testing.T) {
	s := new(mockSender)
	s.On("Send", mock.Anything, toAddr("jane@vestahome.com")).Return(&postmark.SendResponse{MessageID: "m1"}, nil)
	s.On("Send", mock.Anything, toAddr(DefaultOperationsAddress)).Return(&postmark.SendResponse{MessageID: "m2"}, nil)

	n := NewNotifier(s, Config{From: "noreply@vestahome.design"})
	res, err := n.Notify(context.Background(), sample)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sent())
	assert.Equal(t, "jane@vestahome.com", res.Deliveries[0].To)
	assert.Equal(t, "m1", res.Deliveries[0].MessageID)
	assert.Equal(t, DefaultOperationsAddress, res.Deliveries[1].To)
	s.AssertExpectations(t)
}

func TestNotifyOneOfTwoFails(t *testing.T) {
	s := new(mockSender)
	s.On("Send", mock.Anything, toAddr("jane@vestahome.com")).Return(nil, eris.New("postmark: unexpected status 422"))
	s.On("Send", mock.Anything, toAddr(DefaultOperationsAddress)).Return(&postmark.SendResponse{MessageID: "m2"}, nil)

	res, err := NewNotifier(s, Config{}).Notify(context.Background(), sample)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent())
	assert.Error(t, res.Deliveries[0].Err)
	assert.NoError(t, res.Deliveries[1].Err)
}

func TestNotifyAllFail(t *testing.T) {
	s := new(mockSender)
	s.On("Send", mock.Anything, mock.Anything).Return(nil, eris.New("network down"))

	res, err := NewNotifier(s, Config{}).Notify(context.Background(), sample)
	require.ErrorIs(t, err, ErrAllFailed)
	assert.Equal(t, 0, res.Sent())
	assert.Len(t, res.Deliveries, 2)
	s.AssertNumberOfCalls(t, "Send", 2)
}

func TestNotifyMissingFields(t *testing.T) {
	s := new(mockSender)
	n := NewNotifier(s, Config{})

	_, err := n.Notify(context.Background(), model.Receipt{ProjectID: "P1"})
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = n.Notify(context.Background(), model.Receipt{SubmitterEmail: "a@b.c"})
	assert.ErrorIs(t, err, ErrMissingFields)
	s.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotifyEmailShape(t *testing.T) {
	s := new(mockSender)
	s.On("Send", mock.Anything, mock.Anything).Return(&postmark.SendResponse{}, nil)

	n := NewNotifier(s, Config{
		From:          "noreply@vestahome.design",
		MessageStream: "receipts",
		Operations:    "ops@vestahome.com",
	})
	_, err := n.Notify(context.Background(), sample)
	require.NoError(t, err)

	seen := map[string]postmark.Email{}
	for _, c := range s.Calls {
		e := c.Arguments.Get(1).(postmark.Email)
		seen[e.To] = e
	}
	require.Contains(t, seen, "ops@vestahome.com")
	e := seen["ops@vestahome.com"]
	assert.Equal(t, "noreply@vestahome.design", e.From)
	assert.Equal(t, "receipts", e.MessageStream)
	assert.Equal(t, "Project Close Confirmation — VH-2025-001", e.Subject)
	assert.Contains(t, e.TextBody, "Submitted by: jane@vestahome.com")
}

func TestHookSwallowsFailure(t *testing.T) {
	s := new(mockSender)
	s.On("Send", mock.Anything, mock.Anything).Return(nil, eris.New("down"))

	assert.NotPanics(t, func() {
		NewNotifier(s, Config{}).Hook()(context.Background(), sample)
	})
	s.AssertNumberOfCalls(t, "Send", 2)
}
