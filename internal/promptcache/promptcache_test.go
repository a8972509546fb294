package promptcache

import (
	"strings"
	"testing"

	"content-pilot/internal/memory"
	"content-pilot/pkg/llmprovider"
)

func testDefs() []llmprovider.Tool {
	return []llmprovider.Tool{
		{
			Name:        "echo",
			Description: "echoes text",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{"type": "string"},
				},
			},
		},
	}
}

func TestToolsBlock_StableKey(t *testing.T) {
	c := NewController()

	a := c.ToolsBlock(testDefs())
	b := c.ToolsBlock(testDefs())

	if a.CacheKey != b.CacheKey {
		t.Errorf("same definitions must produce the same key: %s vs %s", a.CacheKey, b.CacheKey)
	}
	if a.Label != BlockTools {
		t.Errorf("expected label %q, got %q", BlockTools, a.Label)
	}
	if !strings.Contains(a.Content, "echo") {
		t.Errorf("rendered block missing tool name: %q", a.Content)
	}
}

func TestToolsBlock_KeyChangesWithDefinitions(t *testing.T) {
	c := NewController()

	a := c.ToolsBlock(testDefs())
	changed := testDefs()
	changed[0].Description = "echoes text twice"
	b := c.ToolsBlock(changed)

	if a.CacheKey == b.CacheKey {
		t.Error("changed definitions must change the key")
	}
}

func TestSystemBlock_StableKey(t *testing.T) {
	c := NewController()

	a := c.SystemBlock("you are an assistant")
	b := c.SystemBlock("you are an assistant")
	other := c.SystemBlock("you are a pirate")

	if a.CacheKey != b.CacheKey {
		t.Error("same instructions must produce the same key")
	}
	if a.CacheKey == other.CacheKey {
		t.Error("different instructions must produce different keys")
	}
}

func TestMemoryBlock_KeyBoundToSnapshotVersion(t *testing.T) {
	c := NewController()

	snap := &memory.Snapshot{Version: 7, Summary: "earlier work"}
	a := c.MemoryBlock(snap)
	b := c.MemoryBlock(snap)
	if a.CacheKey != b.CacheKey {
		t.Error("same snapshot version must reuse the same block")
	}

	bumped := &memory.Snapshot{Version: 8, Summary: "earlier work"}
	d := c.MemoryBlock(bumped)
	if a.Content == d.Content {
		t.Error("version bump must re-render the memory block")
	}
}

func TestMemoryBlock_RendersSections(t *testing.T) {
	c := NewController()

	snap := &memory.Snapshot{
		Version:         3,
		Summary:         "campaign planning so far",
		ActiveProjectID: "proj-42",
		Learnings: map[string][]string{
			"style": {"short captions"},
			"brand": {"blue palette"},
		},
		RecentMessages: []memory.Turn{
			{Role: "user", Text: "make a teaser"},
		},
	}
	b := c.MemoryBlock(snap)

	for _, want := range []string{"campaign planning so far", "proj-42", "short captions", "blue palette", "make a teaser"} {
		if !strings.Contains(b.Content, want) {
			t.Errorf("rendered memory missing %q", want)
		}
	}

	// Category order is sorted so the same snapshot always renders
	// byte-identically.
	if strings.Index(b.Content, "brand") > strings.Index(b.Content, "style") {
		t.Error("learning categories must render in sorted order")
	}
}
