package hubparser

// Structural keys, a stanza holding none of them is not a descriptor stanza.
const (
	KeyHub    = "hub"
	KeyGenome = "genome"
	KeyTrack  = "track"

	// URLKey is added to Map() output, it is never a descriptor key.
	URLKey = "url"
)

var structuralKeys = []string{KeyHub, KeyGenome, KeyTrack}

// Record is one stanza of a descriptor file.
type Record struct {
	// URL of the file the stanza was read from.
	URL    string
	Fields map[string]string
}

func (r Record) Get(key string) (string, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// Value returns the value of key or "" when absent.
func (r Record) Value(key string) string {
	return r.Fields[key]
}

func (r Record) Has(key string) bool {
	_, ok := r.Fields[key]
	return ok
}

// Map returns the stanza keys plus the source url under "url".
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.Fields)+1)
	for k, v := range r.Fields {
		m[k] = v
	}
	m[URLKey] = r.URL
	return m
}

func hasStructuralKey(fields map[string]string) bool {
	for _, k := range structuralKeys {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}
