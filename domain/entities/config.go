package entities

// ClassConfig is the parsed content of a vessel class configuration document.
// Keys are case-sensitive; values are whatever the parser produced
// (string, bool, int, float64, []any, map[string]any).
type ClassConfig map[string]any

// Has reports whether key is present.
func (c ClassConfig) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Keys returns the keys of the config in no particular order.
func (c ClassConfig) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
