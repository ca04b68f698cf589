package grasp

import "sync"

// task calls fn on every element, split in contiguous chunks over at most
// workersCount goroutines. A single chunk runs on the calling goroutine.
func task[T any](workersCount int, data []T, fn func(data T)) {
	workersCount = min(max(1, workersCount), len(data))
	if workersCount <= 1 {
		for _, d := range data {
			fn(d)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (len(data) + workersCount - 1) / workersCount
	for start := 0; start < len(data); start += chunkSize {
		wg.Add(1)
		go func(chunk []T) {
			defer wg.Done()
			for _, d := range chunk {
				fn(d)
			}
		}(data[start:min(start+chunkSize, len(data))])
	}
	wg.Wait()
}
