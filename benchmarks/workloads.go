package benchmarks

import "math/rand"

// GetWorkloads returns the standard set of synthetic traces. Each one
// targets a specific cache behavior.
func GetWorkloads() []Workload {
	return []Workload{
		sequentialScan(),
		loopReuse(),
		cyclicOverflow(),
		conflictThrash(),
		stridedAccess(),
		randomAccess(),
	}
}

// GetCoreWorkloads returns a minimal set for quick validation.
func GetCoreWorkloads() []Workload {
	return []Workload{
		loopReuse(),
		cyclicOverflow(),
		conflictThrash(),
	}
}

// 1. Sequential scan - every block is touched once, word by word
func sequentialScan() Workload {
	return Workload{
		Name:        "sequential_scan",
		Description: "64 consecutive words once - only spatial locality",
		Addrs:       rangeTrace(0, 64, 1),
	}
}

// 2. Loop reuse - a working set that fits the default cache
func loopReuse() Workload {
	return Workload{
		Name:        "loop_reuse",
		Description: "12-word loop, 5 passes - fits in cache, warm after one pass",
		Addrs:       repeat(rangeTrace(0, 12, 1), 5),
	}
}

// 3. Cyclic overflow - a loop slightly larger than the cache
func cyclicOverflow() Workload {
	return Workload{
		Name:        "cyclic_overflow",
		Description: "20-word loop, 5 passes - LRU thrashes, MRU keeps part of the loop",
		Addrs:       repeat(rangeTrace(0, 20, 1), 5),
	}
}

// 4. Conflict thrash - more lines than ways mapping to one set
func conflictThrash() Workload {
	return Workload{
		Name:        "conflict_thrash",
		Description: "5 lines 32 words apart, 4 passes - conflict misses in one set",
		Addrs:       repeat(rangeTrace(0, 160, 32), 4),
	}
}

// 5. Strided access - one word per block
func stridedAccess() Workload {
	return Workload{
		Name:        "strided_access",
		Description: "stride-8 walk over 128 words, 2 passes - no spatial reuse",
		Addrs:       repeat(rangeTrace(0, 128, 8), 2),
	}
}

// 6. Random access - uniform addresses from a fixed seed
func randomAccess() Workload {
	r := rand.New(rand.NewSource(1))
	addrs := make([]uint64, 256)
	for i := range addrs {
		addrs[i] = uint64(r.Intn(64))
	}

	return Workload{
		Name:        "random_access",
		Description: "256 uniform accesses over 64 words",
		Addrs:       addrs,
	}
}

func rangeTrace(start, end, step uint64) []uint64 {
	var addrs []uint64
	for a := start; a < end; a += step {
		addrs = append(addrs, a)
	}
	return addrs
}

func repeat(addrs []uint64, n int) []uint64 {
	out := make([]uint64, 0, len(addrs)*n)
	for i := 0; i < n; i++ {
		out = append(out, addrs...)
	}
	return out
}
