package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/kalshi-tsa-bot/internal/exchange/kalshi"
	"github.com/your-org/kalshi-tsa-bot/internal/quote"
)

type fakeOrderClient struct {
	resting    []kalshi.Order
	restingErr error

	cancelled []string
	cancelErr map[string]error

	created   []kalshi.OrderRequest
	createErr map[string]error
}

func (f *fakeOrderClient) GetRestingOrders(_ context.Context, _ string) ([]kalshi.Order, error) {
	return f.resting, f.restingErr
}

func (f *fakeOrderClient) CancelOrder(_ context.Context, orderID string) error {
	if err := f.cancelErr[orderID]; err != nil {
		return err
	}
	f.cancelled = append(f.cancelled, orderID)
	return nil
}

func (f *fakeOrderClient) CreateOrder(_ context.Context, req kalshi.OrderRequest) (*kalshi.Order, error) {
	if err := f.createErr[req.Ticker]; err != nil {
		return nil, err
	}
	f.created = append(f.created, req)
	return &kalshi.Order{OrderID: "ord-" + req.Ticker, Ticker: req.Ticker}, nil
}

func TestCancelRestingCancelsEveryOrder(t *testing.T) {
	client := &fakeOrderClient{resting: []kalshi.Order{
		{OrderID: "a"}, {OrderID: "b"},
	}}
	e := NewLiveExecutionEngine(client)

	require.NoError(t, e.CancelResting(context.Background(), "KXTSAW-25JUL20"))
	assert.Equal(t, []string{"a", "b"}, client.cancelled)
}

func TestCancelRestingContinuesPastFailures(t *testing.T) {
	client := &fakeOrderClient{
		resting:   []kalshi.Order{{OrderID: "a"}, {OrderID: "b"}, {OrderID: "c"}},
		cancelErr: map[string]error{"b": errors.New("gone")},
	}
	e := NewLiveExecutionEngine(client)

	err := e.CancelResting(context.Background(), "KXTSAW-25JUL20")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3")
	assert.Equal(t, []string{"a", "c"}, client.cancelled)
}

func TestCancelRestingListFailureIsFatal(t *testing.T) {
	client := &fakeOrderClient{restingErr: errors.New("boom")}
	e := NewLiveExecutionEngine(client)
	assert.Error(t, e.CancelResting(context.Background(), "KXTSAW-25JUL20"))
}

func TestSubmitSetsSidePrices(t *testing.T) {
	client := &fakeOrderClient{}
	e := NewLiveExecutionEngine(client)

	err := e.Submit(context.Background(), []quote.Quote{
		{Ticker: "M1", Side: quote.SideYes, Price: 49, Count: 5},
		{Ticker: "M2", Side: quote.SideNo, Price: 39, Count: 5},
	})
	require.NoError(t, err)
	require.Len(t, client.created, 2)

	yes := client.created[0]
	assert.Equal(t, "buy", yes.Action)
	assert.Equal(t, "limit", yes.Type)
	assert.Equal(t, "yes", yes.Side)
	assert.Equal(t, 49, yes.YesPrice)
	assert.Zero(t, yes.NoPrice)

	no := client.created[1]
	assert.Equal(t, "no", no.Side)
	assert.Equal(t, 39, no.NoPrice)
	assert.Zero(t, no.YesPrice)
}

func TestSubmitContinuesPastRejections(t *testing.T) {
	client := &fakeOrderClient{createErr: map[string]error{"M1": errors.New("rejected")}}
	e := NewLiveExecutionEngine(client)

	err := e.Submit(context.Background(), []quote.Quote{
		{Ticker: "M1", Side: quote.SideYes, Price: 49, Count: 5},
		{Ticker: "M2", Side: quote.SideNo, Price: 39, Count: 5},
	})
	require.Error(t, err)
	require.Len(t, client.created, 1)
	assert.Equal(t, "M2", client.created[0].Ticker)
}

func TestDryRunTouchesNothing(t *testing.T) {
	e := NewDryRunExecutionEngine()
	assert.NoError(t, e.CancelResting(context.Background(), "KXTSAW-25JUL20"))
	assert.NoError(t, e.Submit(context.Background(), []quote.Quote{
		{Ticker: "M1", Side: quote.SideYes, Price: 49, Count: 5},
	}))
}
