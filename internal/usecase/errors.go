package usecase

import "errors"

var (
	ErrNoSymbols      = errors.New("no symbols provided")
	ErrTooManySymbols = errors.New("too many symbols per scan")
	ErrInvalidSymbol  = errors.New("invalid symbol")
	ErrInvalidTrade   = errors.New("invalid trade")
	ErrMarketClosed   = errors.New("market is closed")
	ErrInvalidRange   = errors.New("invalid time range")
)
