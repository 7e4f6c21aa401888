// Package quoting implements the Avellaneda-Stoikov closed-form quote
// solver: a stateless mapping from (mid, inventory, volatility,
// time-to-close) to an optimal (bid, ask) pair.
package quoting

import "math"

// Default risk/market parameters. They are not substituted automatically:
// New stores the gamma and k it is given, and sigma is supplied per call.
const (
	DefaultSigma = 0.3
	DefaultGamma = 0.1
	DefaultK     = 1.5
)

// Engine is the pure HJB quote solver. It holds only the fixed parameters
// of the closed-form solution and carries no mutable state.
type Engine struct {
	Gamma float64 // risk aversion
	K     float64 // order-arrival intensity
}

// New returns an Engine tuned with the given gamma and k. Callers that
// don't have a config value on hand can pass DefaultGamma/DefaultK.
func New(gamma, k float64) *Engine {
	return &Engine{Gamma: gamma, K: k}
}

// Quote is the optimal bid/ask pair produced by one call to OptimalQuotes.
type Quote struct {
	Bid float64
	Ask float64
}

// OptimalQuotes computes the inventory-skewed half-spreads and returns the
// resulting bid/ask pair.
//
//	t      normalized time-in-session, in [0,1]
//	mid    reference price
//	inv    signed inventory (base-asset units)
//	sigma  annualized volatility for this call
func (e *Engine) OptimalQuotes(t, mid float64, inv int32, sigma float64) Quote {
	gamma, k := e.Gamma, e.K
	tau := 1 - t
	lnTerm := math.Log(1 + gamma/k)
	q := float64(inv)

	bidHalf := (2*q+1)*gamma*sigma*sigma*tau/2 + lnTerm/gamma
	askHalf := (1-2*q)*gamma*sigma*sigma*tau/2 + lnTerm/gamma

	return Quote{
		Bid: mid - bidHalf,
		Ask: mid + askHalf,
	}
}
