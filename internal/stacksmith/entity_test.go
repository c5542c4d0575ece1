package stacksmith

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryFromWire(t *testing.T) {
	assert.Equal(t, Component, CategoryFromWire("component"))
	assert.Equal(t, Component, CategoryFromWire("service"))
	assert.Equal(t, Component, CategoryFromWire("runtime"))
	assert.Equal(t, OperatingSystem, CategoryFromWire("os"))
	assert.Equal(t, Unknown, CategoryFromWire("middleware"))
	assert.Equal(t, Unknown, CategoryFromWire(""))
}

func TestNewEntityDedupesAndSortsVersions(t *testing.T) {
	entity := NewEntity("tomcat", "tomcat", Component, []BranchedVersion{
		{"8.0.23", "stable"},
		{"7.0.62", "stable"},
		{"8.0.23", "stable"},
		{"7.0.62", "dev"},
	})

	assert.Equal(t, []BranchedVersion{
		{"7.0.62", "dev"},
		{"7.0.62", "stable"},
		{"8.0.23", "stable"},
	}, entity.Versions())
}

func TestEntityEqualityIgnoresConstructionOrder(t *testing.T) {
	a := NewEntity("tomcat", "tomcat", Component, []BranchedVersion{
		{"7.0.62", "stable"}, {"8.0.23", "stable"},
	})
	b := NewEntity("tomcat", "tomcat", Component, []BranchedVersion{
		{"8.0.23", "stable"}, {"7.0.62", "stable"},
	})
	assert.Zero(t, a.Compare(b))
	assert.Equal(t, a, b)
}

func TestEntityCompareChain(t *testing.T) {
	base := NewEntity("x", "tomcat", Component, []BranchedVersion{{"8.0.23", "stable"}})

	// Category decides first, regardless of name.
	osEntity := NewEntity("x", "aaa", OperatingSystem, nil)
	assert.Negative(t, base.Compare(osEntity))

	// Then name.
	zEntity := NewEntity("x", "zookeeper", Component, nil)
	assert.Negative(t, base.Compare(zEntity))

	// Then version sets, element by element.
	newer := NewEntity("x", "tomcat", Component, []BranchedVersion{{"9.0.0", "stable"}})
	assert.Negative(t, base.Compare(newer))

	// Then the version-set size.
	bigger := NewEntity("x", "tomcat", Component, []BranchedVersion{
		{"8.0.23", "stable"}, {"9.0.0", "stable"},
	})
	assert.Negative(t, base.Compare(bigger))
}

func TestEntitySetDedupsOnOrder(t *testing.T) {
	var set EntitySet
	set.Insert(NewEntity("a", "tomcat", Component, []BranchedVersion{{"8.0.23", "stable"}}))
	set.Insert(NewEntity("b", "java", Component, []BranchedVersion{{"1.8.0", "stable"}}))
	// Compares equal to the first entry; the set order ignores the id.
	set.Insert(NewEntity("c", "tomcat", Component, []BranchedVersion{{"8.0.23", "stable"}}))

	assert.Equal(t, 2, set.Len())
	entities := set.Entities()
	assert.Equal(t, "java", entities[0].Name())
	assert.Equal(t, "tomcat", entities[1].Name())
}

func TestEntityShortString(t *testing.T) {
	entity := NewEntity("tomcat", "tomcat", Component, []BranchedVersion{
		{"7.0.62", "stable"}, {"8.0.23", "stable"},
	})
	assert.Equal(t, "tomcat {7.0.62 (stable), 8.0.23 (stable)}", entity.ShortString())

	bare := NewEntity("tomcat", "tomcat", Component, nil)
	assert.Equal(t, "tomcat", bare.ShortString())
}
