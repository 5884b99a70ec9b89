package meta

// Property keys known to the resolver. Filters may add others.
const (
	KeyAdmins      = "admins"
	KeyAppID       = "app_id"
	KeyDescription = "description"
	KeyImage       = "image"
	KeyLocale      = "locale"
	KeySiteName    = "site_name"
	KeyTitle       = "title"
	KeyType        = "type"
	KeyURL         = "url"
)

// Record is an ordered mapping of unprefixed property names to unescaped
// content. The zero value is an empty record ready to use.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord builds a record from alternating key, value pairs.
func NewRecord(pairs ...string) Record {
	var r Record
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

// Set stores value under key. An existing key keeps its position.
func (r *Record) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r Record) Get(key string) string {
	return r.values[key]
}

// Has reports whether key is present, even with an empty value.
func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Delete removes key from the record.
func (r *Record) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys.
func (r Record) Len() int {
	return len(r.keys)
}

// Clone returns an independent copy.
func (r Record) Clone() Record {
	var out Record
	for _, k := range r.keys {
		out.Set(k, r.values[k])
	}
	return out
}

// Merge returns base with every entry of partial applied over it. Keys of
// base keep their order; keys only present in partial are appended.
func Merge(partial, base Record) Record {
	out := base.Clone()
	for _, k := range partial.keys {
		out.Set(k, partial.values[k])
	}
	return out
}
