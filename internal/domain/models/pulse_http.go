package models

// PulseRequest binds the market-pulse query parameters.
type PulseRequest struct {
	Ticker string `query:"ticker" validate:"required,min=1,max=10"`
}
