package stacksmith

import (
	"sort"
	"strings"
)

// Category is the kind of versioned entity the catalog tracks.
type Category int

const (
	Component Category = iota
	OperatingSystem
	Unknown
)

// categoryAliases maps the category strings the API emits onto categories.
// The API uses several words for components depending on the entity's role.
var categoryAliases = map[string]Category{
	"component": Component,
	"service":   Component,
	"runtime":   Component,
	"os":        OperatingSystem,
}

// CategoryFromWire maps an API category string to a Category. Unrecognized
// strings map to Unknown rather than failing; the catalog grows categories
// faster than clients do.
func CategoryFromWire(s string) Category {
	if c, ok := categoryAliases[s]; ok {
		return c
	}
	return Unknown
}

// listPath is the discovery endpoint fragment for listing entities of this
// category. Unknown has no listing endpoint.
func (c Category) listPath() string {
	switch c {
	case Component:
		return "components"
	case OperatingSystem:
		return "oses"
	}
	return ""
}

func (c Category) String() string {
	switch c {
	case Component:
		return "component"
	case OperatingSystem:
		return "os"
	}
	return "unknown"
}

// VersionedEntity is a catalog entry: an identified, named entity with the
// set of versions the catalog knows for it. Values are immutable once
// built; the version set is sorted and deduplicated at construction.
type VersionedEntity struct {
	id       string
	name     string
	category Category
	versions []BranchedVersion
}

// NewEntity builds an entity. The versions are copied, sorted into
// BranchedVersion order, and deduplicated, so construction order never
// shows through.
func NewEntity(id, name string, category Category, versions []BranchedVersion) VersionedEntity {
	sorted := make([]BranchedVersion, len(versions))
	copy(sorted, versions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})

	deduped := sorted[:0]
	for _, v := range sorted {
		if len(deduped) > 0 && deduped[len(deduped)-1] == v {
			continue
		}
		deduped = append(deduped, v)
	}

	return VersionedEntity{id: id, name: name, category: category, versions: deduped}
}

// ID is the entity identifier used in API requests.
func (e VersionedEntity) ID() string { return e.id }

// Name is the user-visible entity name.
func (e VersionedEntity) Name() string { return e.name }

// Category reports whether this is a component or an operating system.
func (e VersionedEntity) Category() Category { return e.category }

// Versions returns the known versions in sorted order. The caller gets a
// copy; the entity stays immutable.
func (e VersionedEntity) Versions() []BranchedVersion {
	out := make([]BranchedVersion, len(e.versions))
	copy(out, e.versions)
	return out
}

// Compare provides the display/sorting order over entities: category
// first, then name, then the version sets element by element, then the
// version-set size. The id does not participate; two entities listing the
// same name and versions sort as equal.
func (e VersionedEntity) Compare(other VersionedEntity) int {
	if e.category != other.category {
		if e.category < other.category {
			return -1
		}
		return 1
	}
	if c := strings.Compare(e.name, other.name); c != 0 {
		return c
	}
	for i := 0; i < len(e.versions) && i < len(other.versions); i++ {
		if c := e.versions[i].Compare(other.versions[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(e.versions) < len(other.versions):
		return -1
	case len(e.versions) > len(other.versions):
		return 1
	}
	return 0
}

// ShortString renders the entity and its versions for listings, e.g.
// "tomcat {7.0.62 (stable), 8.0.23 (stable)}".
func (e VersionedEntity) ShortString() string {
	if len(e.versions) == 0 {
		return e.name
	}
	shorts := make([]string, len(e.versions))
	for i, v := range e.versions {
		shorts[i] = v.ShortString()
	}
	return e.name + " {" + strings.Join(shorts, ", ") + "}"
}

// EntitySet is an ordered set of entities keyed by the entity order;
// inserting an entity that compares equal to a member is a no-op.
type EntitySet struct {
	entities []VersionedEntity
}

// Insert adds an entity, keeping the set sorted and deduplicated.
func (s *EntitySet) Insert(e VersionedEntity) {
	i := sort.Search(len(s.entities), func(i int) bool {
		return s.entities[i].Compare(e) >= 0
	})
	if i < len(s.entities) && s.entities[i].Compare(e) == 0 {
		return
	}
	s.entities = append(s.entities, VersionedEntity{})
	copy(s.entities[i+1:], s.entities[i:])
	s.entities[i] = e
}

// Len reports the number of entities in the set.
func (s *EntitySet) Len() int { return len(s.entities) }

// Entities returns the members in sorted order.
func (s *EntitySet) Entities() []VersionedEntity {
	out := make([]VersionedEntity, len(s.entities))
	copy(out, s.entities)
	return out
}
