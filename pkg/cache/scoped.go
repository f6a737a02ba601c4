package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving separate
// namespaces to callers sharing one cache (the HTTP API and the CLI sharing a
// redis instance, for example).
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer if nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocumentKey implements Keyer.
func (k *ScopedKeyer) DocumentKey(source string, input []byte, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(source, input, opts)
}

// PreviewKey implements Keyer.
func (k *ScopedKeyer) PreviewKey(documentHash string) string {
	return k.prefix + k.inner.PreviewKey(documentHash)
}
