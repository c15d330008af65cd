package fetcher

import (
	"context"
	"time"
)

// Attempt describes one finished GET inside GetAssetWithRetry.
type Attempt struct {
	URL        string
	Number     int // 1-based
	Of         int
	StatusCode int
	Err        error
	// Wait is how long the retry loop will sleep before the next attempt, 0 if none follows.
	Wait time.Duration
	Size int
}

// RetryPolicy retries rate-limited responses with linear backoff.
// Attempts is the total number of GETs; with Attempts=3 and Backoff=10s the
// waits are 10s and 20s. Values below 1 mean a single attempt.
type RetryPolicy struct {
	Attempts int
	Backoff time.Duration
	// Sleep defaults to a context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnAttempt is called after every attempt, successful or not.
	OnAttempt func(Attempt)
}

// SleepContext waits for d or until ctx is done, whichever comes first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GetAssetWithRetry fetches url, retrying only on 429. Any other failure returns immediately.
func (f *Fetcher) GetAssetWithRetry(ctx context.Context, url string, policy RetryPolicy) (*Asset, error) {
	sleep := policy.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for n := 1; ; n++ {
		asset, err := f.GetAsset(ctx, url)

		attempt := Attempt{URL: url, Number: n, Of: attempts, StatusCode: StatusCode(err), Err: err}
		if err == nil {
			attempt.StatusCode = 200
			attempt.Size = len(asset.Data)
		}
		retry := err != nil && IsRateLimited(err) && n < attempts
		if retry {
			attempt.Wait = time.Duration(n) * policy.Backoff
		}
		if policy.OnAttempt != nil {
			policy.OnAttempt(attempt)
		}

		if !retry {
			return asset, err
		}
		if err := sleep(ctx, attempt.Wait); err != nil {
			return nil, err
		}
	}
}
