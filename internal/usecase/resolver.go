package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/kaspiwatch/backend/internal/domain"
)

// ResolverConfig holds the strategy and retry policy for one resolver
type ResolverConfig struct {
	// MaxRetries bounds direct-fetch retries after a 429
	MaxRetries int

	// RetryDelay is multiplied by the retry index for linear backoff
	RetryDelay time.Duration

	VendorEnabled bool
	NotifyEnabled bool
}

// Resolver runs one availability check: vendor API first when enabled, then
// the proxy service, then direct fetch with bounded backoff on rate limiting.
// Fallback is one-directional; a direct failure never re-enters the proxy path.
type Resolver struct {
	fetcher   domain.PageFetcher
	extractor *Extractor
	notifier  domain.Notifier
	cfg       ResolverConfig

	// sleep is replaceable in tests to observe the backoff schedule
	sleep func(time.Duration)
}

// NewResolver creates a resolver with its dependencies.
func NewResolver(fetcher domain.PageFetcher, extractor *Extractor, notifier domain.Notifier, cfg ResolverConfig) *Resolver {
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	return &Resolver{
		fetcher:   fetcher,
		extractor: extractor,
		notifier:  notifier,
		cfg:       cfg,
		sleep:     time.Sleep,
	}
}

// Resolve runs the strategy chain to completion and returns the result with
// its full ordered trace. It never panics and never returns nil.
func (r *Resolver) Resolve(ctx context.Context, target domain.TargetSpec) *domain.CheckResult {
	trace := &domain.Trace{}
	trace.Infof("starting availability check")
	trace.Infof("URL: %s", target.URL)

	if r.cfg.VendorEnabled {
		if result := r.tryVendor(ctx, target, trace); result != nil {
			return result
		}
	}

	if target.UseProxy && target.ProxyAPIKey != "" {
		if result := r.tryProxy(ctx, target, trace); result != nil {
			return result
		}
	}

	return r.tryDirect(ctx, target, trace)
}

// tryVendor attempts the vendor JSON endpoint. Any failure falls through to
// the markup-based chain, so a nil result means "keep going".
func (r *Resolver) tryVendor(ctx context.Context, target domain.TargetSpec, trace *domain.Trace) *domain.CheckResult {
	if target.ProductID == "" {
		trace.Warnf("vendor API enabled but no product id in URL, skipping")
		return nil
	}

	trace.Infof("querying vendor API for product %s", target.ProductID)
	snapshot, err := r.fetcher.FetchVendorOffer(ctx, target)
	if err != nil {
		trace.Warnf("vendor API failed: %v", err)
		return nil
	}

	return r.finish(trace, snapshot, domain.StrategyVendorAPI, target)
}

// tryProxy attempts the fetch-through proxy service. A fetch failure falls
// through to direct; an extraction failure after a successful fetch is terminal.
func (r *Resolver) tryProxy(ctx context.Context, target domain.TargetSpec, trace *domain.Trace) *domain.CheckResult {
	trace.Infof("fetching through proxy service")
	content, err := r.fetcher.Fetch(ctx, target, domain.StrategyProxyService)
	if err != nil {
		trace.Warnf("proxy fetch failed: %v", err)
		return nil
	}

	trace.Infof("proxy fetch succeeded (status %d)", content.StatusCode)
	return r.extractAndFinish(trace, content, target)
}

// tryDirect is the last strategy; its failures are terminal. Rate limiting is
// retried with linear backoff up to the configured bound.
func (r *Resolver) tryDirect(ctx context.Context, target domain.TargetSpec, trace *domain.Trace) *domain.CheckResult {
	trace.Infof("fetching product page directly")

	var content *domain.PageContent
	for attempt := 0; ; attempt++ {
		c, err := r.fetcher.Fetch(ctx, target, domain.StrategyDirect)
		if err == nil {
			content = c
			break
		}

		if errors.Is(err, domain.ErrRateLimited) {
			if attempt < r.cfg.MaxRetries {
				delay := time.Duration(attempt+1) * r.cfg.RetryDelay
				trace.Warnf("rate limited (429), retry %d/%d in %s", attempt+1, r.cfg.MaxRetries, delay)
				r.sleep(delay)
				continue
			}
			trace.Errorf("still rate limited after %d retries; consider a longer interval between checks", r.cfg.MaxRetries)
			return r.fail(trace, err)
		}

		trace.Errorf("direct fetch failed: %v", err)
		return r.fail(trace, err)
	}

	trace.Infof("direct fetch succeeded (status %d)", content.StatusCode)
	return r.extractAndFinish(trace, content, target)
}

func (r *Resolver) extractAndFinish(trace *domain.Trace, content *domain.PageContent, target domain.TargetSpec) *domain.CheckResult {
	trace.Infof("extracting product data")
	snapshot, err := r.extractor.Extract(content, trace)
	if err != nil {
		trace.Errorf("extraction failed: %v", err)
		return r.fail(trace, err)
	}
	return r.finish(trace, snapshot, content.Strategy, target)
}

func (r *Resolver) finish(trace *domain.Trace, snapshot *domain.ProductSnapshot, strategy domain.StrategyKind, target domain.TargetSpec) *domain.CheckResult {
	trace.Infof("product: %s", snapshot.Name)
	trace.Infof("price: %s", snapshot.PriceLabel())
	trace.Infof("availability: %s", snapshot.Availability)

	result := &domain.CheckResult{
		Success:   true,
		Snapshot:  snapshot,
		Method:    strategy.String(),
		Trace:     trace,
		CheckedAt: time.Now(),
	}

	if !snapshot.InStock() {
		trace.Infof("product is out of stock")
		return result
	}

	trace.Successf("PRODUCT IS IN STOCK!")
	if r.cfg.NotifyEnabled && r.notifier != nil {
		outcome := r.notifier.Notify(snapshot, target)
		if outcome.Sent {
			trace.Successf("notification: %s", outcome.Detail)
		} else {
			trace.Warnf("notification not sent: %s", outcome.Detail)
		}
		result.Notification = &outcome
	}

	return result
}

func (r *Resolver) fail(trace *domain.Trace, err error) *domain.CheckResult {
	return &domain.CheckResult{
		Success:   false,
		Err:       err,
		Trace:     trace,
		CheckedAt: time.Now(),
	}
}
