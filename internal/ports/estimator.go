package ports

// TokenEstimator approximates how many model tokens a string costs.
// Estimates are advisory; implementations must be cheap enough to call
// once per segment plus once per prompt.
type TokenEstimator interface {
	Estimate(text, model string) int
}
