package terminal

// AccountResponse from GET /api/v1/account
type AccountResponse struct {
	Login    string `json:"login"`
	Name     string `json:"name"`
	Server   string `json:"server"`
	Company  string `json:"company"`
	Currency string `json:"currency"`
}

// DealCountResponse from GET /api/v1/history/deals/count
type DealCountResponse struct {
	Total int `json:"total"`
}

// DealTicketsResponse from GET /api/v1/history/deals
type DealTicketsResponse struct {
	Tickets []uint64 `json:"tickets"`
	Total   int      `json:"total"`
}

// APIDeal represents a deal from the bridge API.
type APIDeal struct {
	Ticket     uint64  `json:"ticket"`
	PositionID uint64  `json:"position_id"`
	Symbol     string  `json:"symbol"`
	Type       string  `json:"type"`  // "buy", "sell", "balance", "credit", ...
	Entry      string  `json:"entry"` // "in", "out", "inout", "out_by"
	Volume     float64 `json:"volume"`
	Price      float64 `json:"price"`
	Profit     float64 `json:"profit"`
	Time       int64   `json:"time"` // Unix seconds
}

// SingleDealResponse from GET /api/v1/history/deals/{ticket}
type SingleDealResponse struct {
	Deal APIDeal `json:"deal"`
}

// APIPosition represents an open position from the bridge API.
type APIPosition struct {
	ID           uint64  `json:"id"`
	Symbol       string  `json:"symbol"`
	Type         string  `json:"type"` // "buy" or "sell"
	Volume       float64 `json:"volume"`
	OpenPrice    float64 `json:"open_price"`
	CurrentPrice float64 `json:"current_price"`
	StopLoss     float64 `json:"sl"`
	TakeProfit   float64 `json:"tp"`
	Profit       float64 `json:"profit"`
	OpenedAt     int64   `json:"opened_at"`  // Unix seconds
	UpdatedAt    int64   `json:"updated_at"` // Unix seconds
}

// SinglePositionResponse from GET /api/v1/positions/{id}
type SinglePositionResponse struct {
	Position APIPosition `json:"position"`
}
