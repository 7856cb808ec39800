package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinearc/cinearc-api/internal/queue"
	"github.com/cinearc/cinearc-api/internal/repository"
)

// fakeCreator records the one CreateSession call a test expects.
type fakeCreator struct {
	calls      int
	unitAmount int64
	quantity   int64
	successURL string
	cancelURL  string
	err        error
}

func (f *fakeCreator) CreateSession(ctx context.Context, unitAmountCents, quantity int64, successURL, cancelURL string) (string, error) {
	f.calls++
	f.unitAmount = unitAmountCents
	f.quantity = quantity
	f.successURL = successURL
	f.cancelURL = cancelURL
	if f.err != nil {
		return "", f.err
	}
	return "cs_test_123", nil
}

func newCheckoutMock(t *testing.T, creator *fakeCreator) (*CheckoutService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewCheckoutService(repository.NewBasketRepo(db), creator, CheckoutConfig{
		TicketPriceCents: 1600,
		FrontendBaseURL:  "https://front.example",
	})
	return svc, mock
}

func unpaidRows(quantities ...uint32) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "user_id", "session_id", "quantity", "paid", "created_at", "updated_at"})
	now := time.Now()
	for i, q := range quantities {
		rows.AddRow(uint64(i+1), uint64(1), uint64(i+10), q, false, now, now)
	}
	return rows
}

func TestInitiateCheckoutTotalsUnpaidBaskets(t *testing.T) {
	creator := &fakeCreator{}
	svc, mock := newCheckoutMock(t, creator)

	mock.ExpectQuery("SELECT id, user_id, session_id, quantity, paid, created_at, updated_at").
		WithArgs(uint64(1)).
		WillReturnRows(unpaidRows(2, 3))

	id, err := svc.InitiateCheckout(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", id)
	assert.Equal(t, 1, creator.calls)
	assert.Equal(t, int64(1600), creator.unitAmount)
	assert.Equal(t, int64(5), creator.quantity)
	assert.Equal(t, "https://front.example/payment/success", creator.successURL)
	assert.Equal(t, "https://front.example/payment/cancel", creator.cancelURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitiateCheckoutNothingToPay(t *testing.T) {
	creator := &fakeCreator{}
	svc, mock := newCheckoutMock(t, creator)

	mock.ExpectQuery("SELECT id, user_id, session_id, quantity, paid, created_at, updated_at").
		WithArgs(uint64(1)).
		WillReturnRows(unpaidRows())

	_, err := svc.InitiateCheckout(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrNothingToPay)
	assert.Equal(t, 0, creator.calls, "the provider must not be contacted with nothing to pay")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitiateCheckoutPropagatesProviderError(t *testing.T) {
	creator := &fakeCreator{err: errors.New("stripe down")}
	svc, mock := newCheckoutMock(t, creator)

	mock.ExpectQuery("SELECT id, user_id, session_id, quantity, paid, created_at, updated_at").
		WithArgs(uint64(1)).
		WillReturnRows(unpaidRows(1))

	_, err := svc.InitiateCheckout(context.Background(), 1)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentMarksBasketsAndPublishes(t *testing.T) {
	svc, mock := newCheckoutMock(t, &fakeCreator{})

	var published []queue.PaymentConfirmedEvent
	svc.publish = func(ctx context.Context, ev queue.PaymentConfirmedEvent) error {
		published = append(published, ev)
		return nil
	}

	mock.ExpectQuery("SELECT id, user_id, session_id, quantity, paid, created_at, updated_at").
		WithArgs(uint64(1)).
		WillReturnRows(unpaidRows(2, 3))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE baskets SET paid = 1").
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := svc.ConfirmPayment(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.Len(t, published, 1)
	assert.Equal(t, uint64(1), published[0].UserID)
	assert.Equal(t, int64(2), published[0].BasketCount)
	assert.Equal(t, int64(5), published[0].TicketCount)
	assert.Equal(t, int64(5*1600), published[0].TotalAmountCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentIdempotent(t *testing.T) {
	svc, mock := newCheckoutMock(t, &fakeCreator{})

	published := 0
	svc.publish = func(ctx context.Context, ev queue.PaymentConfirmedEvent) error {
		published++
		return nil
	}

	// everything already paid: the update matches nothing and no event fires
	mock.ExpectQuery("SELECT id, user_id, session_id, quantity, paid, created_at, updated_at").
		WithArgs(uint64(1)).
		WillReturnRows(unpaidRows())
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE baskets SET paid = 1").
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := svc.ConfirmPayment(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, 0, published)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentSurvivesPublishFailure(t *testing.T) {
	svc, mock := newCheckoutMock(t, &fakeCreator{})
	svc.publish = func(ctx context.Context, ev queue.PaymentConfirmedEvent) error {
		return errors.New("broker unreachable")
	}

	mock.ExpectQuery("SELECT id, user_id, session_id, quantity, paid, created_at, updated_at").
		WithArgs(uint64(1)).
		WillReturnRows(unpaidRows(1))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE baskets SET paid = 1").
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := svc.ConfirmPayment(context.Background(), 1)
	require.NoError(t, err, "a broker outage must not fail a confirmed payment")
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
