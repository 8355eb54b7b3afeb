package pool

import (
	"runtime"
	"sync"
)

// job asks a worker to store f(i) in out[i].
type job struct {
	i    int
	f    func(int) interface{}
	out  []interface{}
	done *sync.WaitGroup
}

// Pool is a fixed set of goroutines evaluating independent jobs, such as the
// commitments of the submissions of a batch.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current goroutine instead.
type Pool struct {
	jobs    chan job
	workers int
}

// NewPool starts a pool with count workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	p := &Pool{
		jobs:    make(chan job),
		workers: count,
	}
	for i := 0; i < count; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	for j := range p.jobs {
		j.out[j.i] = j.f(j.i)
		j.done.Done()
	}
}

// Workers returns the number of goroutines of p, or 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// TearDown stops the workers. p must not be used afterwards.
func (p *Pool) TearDown() {
	close(p.jobs)
}

// Parallelize calls f with every index in 0..count-1 and returns
// [f(0), f(1), ..., f(count - 1)], in that order.
//
// f must not call Parallelize on the same pool.
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	results := make([]interface{}, count)
	if p == nil {
		for i := range results {
			results[i] = f(i)
		}
		return results
	}

	var done sync.WaitGroup
	done.Add(count)
	for i := 0; i < count; i++ {
		p.jobs <- job{i: i, f: f, out: results, done: &done}
	}
	done.Wait()
	return results
}
