package domain

import "context"

// PageFetcher defines the interface for obtaining product data over the network.
// Fetch serves the markup-producing strategies (direct, proxy service);
// FetchVendorOffer serves the vendor JSON endpoint, which yields a snapshot
// directly and bypasses markup extraction.
type PageFetcher interface {
	Fetch(ctx context.Context, target TargetSpec, strategy StrategyKind) (*PageContent, error)
	FetchVendorOffer(ctx context.Context, target TargetSpec) (*ProductSnapshot, error)
}

// Notifier defines the interface for delivering in-stock notifications.
// Implementations report failure through the outcome, never through a panic
// or an error that could invalidate the check itself.
type Notifier interface {
	Notify(snapshot *ProductSnapshot, target TargetSpec) NotificationOutcome
}
