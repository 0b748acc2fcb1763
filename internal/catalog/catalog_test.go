package catalog

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/lracheck/internal/model"
)

func TestEmptyCatalog(t *testing.T) {
	c := New()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "", c.FormatReport())
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	c := New()
	c.Add(model.Finding{ID: "b", Code: model.DuplicateMarker, Class: "B", Message: "second class"})
	c.Add(model.Finding{ID: "a", Code: model.ConflictingMarkers, Class: "A", Message: "first class"})

	require.False(t, c.IsEmpty())
	assert.Equal(t,
		"[DUPLICATE-MARKER] second class\n[CONFLICTING-MARKERS] first class",
		c.FormatReport())

	sorted := c.Sorted()
	assert.Equal(t, model.TypeRef("A"), sorted[0].Class)
	assert.Equal(t, model.TypeRef("B"), c.Findings()[0].Class)
}

func TestAddDoesNotDeduplicate(t *testing.T) {
	c := New()
	f := model.Finding{ID: "X-1", Code: model.MissingTerminationCallback, Class: "A", Message: "m"}
	c.Add(f)
	c.Add(f)

	fs := c.Findings()
	require.Len(t, fs, 2)
	assert.Equal(t, "X-1", fs[0].ID)
	assert.NotEqual(t, fs[0].ID, fs[1].ID)
}

func TestConcurrentAdd(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Add(model.Finding{Code: model.DuplicateMarker, Class: model.TypeRef(fmt.Sprintf("C%02d", i))})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
	sorted := c.Sorted()
	assert.Equal(t, model.TypeRef("C00"), sorted[0].Class)
	assert.Equal(t, model.TypeRef("C49"), sorted[49].Class)
}
