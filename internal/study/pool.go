package study

import (
	"context"
	"sync"
)

// runPool calls fn for trial numbers 0..n-1 with at most maxWorkers in
// flight. Once ctx is cancelled no further trials launch; trials already
// running finish on their own since the objective watches the same ctx.
func runPool(ctx context.Context, maxWorkers, n int, fn func(n int)) {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxWorkers)
	for i := 0; i < n; i++ {
		sem <- struct{}{}
		if ctx.Err() != nil {
			<-sem
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}
