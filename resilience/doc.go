// Package resilience holds the fault-tolerance primitives the HTTP adapter
// applies around each request: Retry (exponential backoff from
// cenkalti/backoff), RateLimiter (token bucket from golang.org/x/time/rate)
// and CircuitBreaker.
//
// The adapter nests them so every attempt waits for a token and then passes
// the breaker:
//
//	resp, err := resilience.Retry(ctx, retryCfg, func() (*Response, error) {
//	    if err := rl.Wait(ctx); err != nil {
//	        return nil, err
//	    }
//	    var resp *Response
//	    err := cb.Execute(func() (err error) {
//	        resp, err = send(ctx)
//	        return err
//	    })
//	    return resp, err
//	})
package resilience
