package cachefn

// Hooks are lightweight callbacks for cache events.
// Implementations MUST be cheap and non-blocking: they run inline on every
// wrapped call. Wrap slow sinks with hooks/async.
type Hooks interface {
	// The cached value was returned without invoking the wrapped function.
	CacheHit(key string)
	// No entry existed; the wrapped function is about to run.
	CacheMiss(key string)
	// A fetch failed and DegradeOnError turned it into a miss.
	FetchDegraded(key string, err error)
	// The computed value could not be written. It was still returned.
	StoreFailed(key string, err error)
	// The default key builder refused the arguments of fn.
	KeyRejected(fn string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CacheHit(string)             {}
func (NopHooks) CacheMiss(string)            {}
func (NopHooks) FetchDegraded(string, error) {}
func (NopHooks) StoreFailed(string, error)   {}
func (NopHooks) KeyRejected(string, error)   {}
