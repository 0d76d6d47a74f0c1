package signing

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
)

// BatchItem is one signature to verify
type BatchItem struct {
	Signature *Signature
	Message   []byte
	GroupKey  *curve.Point
}

// BatchVerifyResult represents the result of batch verification
type BatchVerifyResult struct {
	Valid         bool
	FailedIndices []int
	TotalChecked  int
}

// BatchVerify verifies items concurrently on up to workers goroutines
// (GOMAXPROCS when workers <= 0). Results are per item; one bad signature
// does not stop the others from being checked.
func BatchVerify(items []BatchItem, workers int) *BatchVerifyResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	ok := make([]bool, len(items))

	var pool errgroup.Group
	pool.SetLimit(workers)
	for i, item := range items {
		i, item := i, item
		pool.Go(func() error {
			ok[i] = Verify(item.Signature, item.Message, item.GroupKey)
			return nil
		})
	}
	pool.Wait()

	result := &BatchVerifyResult{
		Valid:         true,
		FailedIndices: []int{},
		TotalChecked:  len(items),
	}
	for i, valid := range ok {
		if !valid {
			result.Valid = false
			result.FailedIndices = append(result.FailedIndices, i)
		}
	}

	return result
}
