// Package cachefn caches the results of Go functions in Redis.
//
// A wrapped function computes its value once per argument set; later calls
// with equal arguments read the stored value instead:
//
//	c, _ := cachefn.New(cachefn.Options{URL: "redis://localhost:6379/0"})
//	getName := cachefn.Must(cachefn.String(c, loadName, cachefn.WithTTL(time.Hour)))
//	name, err := getName.Call(ctx, userID)
//
// Components:
//   - Cacheable[T]: one storage shape (string, hash field, hash, list) on top
//     of a store.Store.
//   - CacheElement[V]: a Cacheable plus a Transform that loads and dumps the
//     domain type V. Package codec has ready-made transforms (JSON, msgpack,
//     CBOR, protobuf, scalars).
//   - Func[A, V]: the wrapper. On every call it derives the key, reads, and
//     on a miss runs the function, resolves the TTL and writes.
//   - Caching: owns the store handle shared by all Funcs and builds them.
//
// Keys:
//
//	<namespace>:<func name>[:<encoded args>]   derived (default)
//	<anything>                                 WithKey / WithKeyFunc / SetKeyFunc
//
// Deferred init:
//
//	c, _ := cachefn.New(cachefn.Options{})  // no store yet
//	getName := cachefn.Must(cachefn.String(c, loadName))
//	...
//	err := c.InitURL(cfg.RedisURL, redisstore.ConnOptions{}) // later, in main
//
// Until the handle is filled, every call returns ErrNotInitialized.
package cachefn
