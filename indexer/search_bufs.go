package indexer

import "sync"

const heapBufCap = 64

// workerBufs holds per-worker reusable buffers to avoid cross-core sharing.
type workerBufs struct {
	heap candHeap
}

func newWorkerBufs() *workerBufs {
	return &workerBufs{heap: make(candHeap, 0, heapBufCap)}
}

func (b *workerBufs) reset() {
	b.heap = b.heap[:0]
}

var bufsPool = sync.Pool{
	New: func() any { return newWorkerBufs() },
}

func getWorkerBufs() *workerBufs { return bufsPool.Get().(*workerBufs) }

func putWorkerBufs(b *workerBufs) {
	b.reset()
	bufsPool.Put(b)
}
