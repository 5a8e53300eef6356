package reconcile

import (
	"fmt"
	"sort"
	"sync"
)

// Result is the outcome of reconciling a single resource.
type Result struct {
	// Kind names the resource type (pool, user, ha-resource, ...).
	Kind string
	// Name identifies the resource within its kind.
	Name string
	// Changed reports whether the cluster was (or in check mode, would
	// be) modified.
	Changed bool
	// Failed reports whether reconciliation of this resource failed.
	Failed bool
	// Msg is a human-readable summary of what happened.
	Msg string
}

// String renders the result the way the run summary prints it.
func (r Result) String() string {
	status := "ok"
	switch {
	case r.Failed:
		status = "failed"
	case r.Changed:
		status = "changed"
	}
	return fmt.Sprintf("%-7s %s/%s: %s", status, r.Kind, r.Name, r.Msg)
}

func okResult(kind, name, msg string) Result {
	return Result{Kind: kind, Name: name, Msg: msg}
}

func changedResult(kind, name, msg string) Result {
	return Result{Kind: kind, Name: name, Changed: true, Msg: msg}
}

func failedResult(kind, name string, err error) Result {
	return Result{Kind: kind, Name: name, Failed: true, Msg: err.Error()}
}

// Report aggregates the results of a reconcile run. Add is safe for
// concurrent use, results inside a phase arrive from parallel tasks.
type Report struct {
	mu      sync.Mutex
	results []Result
}

// Add records one result.
func (r *Report) Add(res Result) {
	r.mu.Lock()
	r.results = append(r.results, res)
	r.mu.Unlock()
}

// Results returns all recorded results ordered by kind then name.
func (r *Report) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Result, len(r.results))
	copy(out, r.results)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Failed reports whether any resource failed.
func (r *Report) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.results {
		if res.Failed {
			return true
		}
	}
	return false
}

// Counts returns how many resources were ok, changed and failed.
func (r *Report) Counts() (ok, changed, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.results {
		switch {
		case res.Failed:
			failed++
		case res.Changed:
			changed++
		default:
			ok++
		}
	}
	return ok, changed, failed
}

// Summary renders a one-line run summary.
func (r *Report) Summary() string {
	ok, changed, failed := r.Counts()
	return fmt.Sprintf("ok=%d changed=%d failed=%d", ok, changed, failed)
}
