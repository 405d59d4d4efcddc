package connector

import "sort"

// defaultRegistry wires every supported source. New sources are added
// here and nowhere else; consumers go through Get and never construct
// adapters themselves. The map is built once and never mutated.
var defaultRegistry = map[string]Connector{
	"mangadex": NewMangaDex(),
	"anilist":  NewAniList(),
	"kitsu":    NewKitsu(),
}

// Get returns the connector for a lowercase source id, or nil when the
// id is unknown. Callers treat nil as "unsupported source" and skip it.
func Get(id string) Connector {
	return defaultRegistry[id]
}

// IDs returns the registered source ids in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(defaultRegistry))
	for id := range defaultRegistry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every registered connector, ordered by id.
func All() []Connector {
	conns := make([]Connector, 0, len(defaultRegistry))
	for _, id := range IDs() {
		conns = append(conns, defaultRegistry[id])
	}
	return conns
}
