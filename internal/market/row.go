package market

// Row is a flat record with insertion-ordered keys, the shape consumed by
// tabular sinks. The first row written to a sink fixes its header; later rows
// are matched positionally, so key order must be stable across cycles.
type Row struct {
	keys   []string
	values map[string]string
}

func NewRow() *Row {
	return &Row{values: make(map[string]string)}
}

// Set adds or replaces a value. A new key is appended to the key order;
// an existing key keeps its position.
func (r *Row) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Row) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (r *Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Values returns the values in key order.
func (r *Row) Values() []string {
	out := make([]string, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.values[k])
	}
	return out
}

func (r *Row) Len() int {
	return len(r.keys)
}
