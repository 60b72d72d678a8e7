// Package kalshi handles interactions with the Kalshi trading API.
package kalshi

// Market is one binary market (strike) within a weekly event.
type Market struct {
	Ticker      string  `json:"ticker"`
	EventTicker string  `json:"event_ticker"`
	FloorStrike float64 `json:"floor_strike"`
	YesBid      int     `json:"yes_bid"`
	YesAsk      int     `json:"yes_ask"`
	Status      string  `json:"status"`
}

type marketsResponse struct {
	Markets []Market `json:"markets"`
	Cursor  string   `json:"cursor"`
}

// MarketPosition is the venue's view of our position in one market.
// Position is signed contract count (positive = net long yes);
// MarketExposure is the unsigned dollar value at risk.
type MarketPosition struct {
	Ticker         string `json:"ticker"`
	Position       int64  `json:"position"`
	MarketExposure int64  `json:"market_exposure"`
}

type positionsResponse struct {
	MarketPositions []MarketPosition `json:"market_positions"`
	Cursor          string           `json:"cursor"`
}

// Order is a venue order record.
type Order struct {
	OrderID  string `json:"order_id"`
	Ticker   string `json:"ticker"`
	Status   string `json:"status"`
	Action   string `json:"action"`
	Side     string `json:"side"`
	YesPrice int    `json:"yes_price"`
	NoPrice  int    `json:"no_price"`
	Count    int    `json:"count"`
}

type ordersResponse struct {
	Orders []Order `json:"orders"`
	Cursor string  `json:"cursor"`
}

// OrderRequest is the payload for placing a limit order. Exactly one of
// YesPrice/NoPrice should be set, matching Side.
type OrderRequest struct {
	Action        string `json:"action"`
	ClientOrderID string `json:"client_order_id"`
	Count         int    `json:"count"`
	Side          string `json:"side"`
	Ticker        string `json:"ticker"`
	Type          string `json:"type"`
	YesPrice      int    `json:"yes_price,omitempty"`
	NoPrice       int    `json:"no_price,omitempty"`
}

type orderResponse struct {
	Order Order `json:"order"`
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
