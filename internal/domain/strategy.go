package domain

// StrategyKind identifies one concrete method of obtaining product data
type StrategyKind int

const (
	// StrategyDirect is a plain GET against the product page with browser-like headers
	StrategyDirect StrategyKind = iota

	// StrategyProxyService fetches the page through a third-party rendering proxy
	StrategyProxyService

	// StrategyVendorAPI queries the vendor's JSON offers endpoint by product ID
	StrategyVendorAPI
)

func (s StrategyKind) String() string {
	return [...]string{"direct", "proxy", "vendor-api"}[s]
}
