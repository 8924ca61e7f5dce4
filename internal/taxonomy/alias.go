package taxonomy

import "github.com/centavo/centavo/internal/importer/normalize"

// AliasTable maps normalized incoming group names to the canonical name
// used by the app's taxonomy. It bridges naming conventions between import
// formats and the tracker; entries are expected to grow over time, so the
// mapping lives here rather than as inline string comparisons.
type AliasTable map[string]string

// DefaultAliases returns the built-in naming bridges.
func DefaultAliases() AliasTable {
	return AliasTable{
		"car": "Transport",
	}
}

// Rewrite returns the canonical name for an incoming group name, if one is
// configured.
func (t AliasTable) Rewrite(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	canonical, ok := t[normalize.Key(name)]
	if !ok {
		return "", false
	}
	return canonical, true
}

// With returns a copy of the table with an extra entry. The incoming name
// is normalized; the canonical name is stored verbatim.
func (t AliasTable) With(from, to string) AliasTable {
	out := make(AliasTable, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[normalize.Key(from)] = to
	return out
}
