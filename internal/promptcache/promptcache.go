package promptcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"content-pilot/internal/memory"
	"content-pilot/pkg/llmprovider"
)

// Block labels.
const (
	BlockTools  = "tools"
	BlockSystem = "system"
	BlockMemory = "memory"
)

// Controller splits the assembled context into independently cache-addressed
// blocks. Keys are derived purely from block content (the memory block's
// content embeds the snapshot version), never from wall-clock time, so two
// iterations without a checkpoint between them produce identical keys and a
// checkpoint in between changes only the memory key. Keeping the blocks
// separate is the point: one learning write must not invalidate the tool
// definitions block.
type Controller struct {
	rendered *expirable.LRU[string, llmprovider.CacheBlock]
}

// NewController creates a controller with a bounded cache of rendered blocks.
func NewController() *Controller {
	return &Controller{
		rendered: expirable.NewLRU[string, llmprovider.CacheBlock](64, nil, time.Hour),
	}
}

// ToolsBlock renders the tool-definition block. Its key changes only when the
// registry's schema set changes.
func (c *Controller) ToolsBlock(defs []llmprovider.Tool) llmprovider.CacheBlock {
	raw, _ := json.Marshal(defs)
	id := BlockTools + ":" + digest(raw)
	if b, ok := c.rendered.Get(id); ok {
		return b
	}

	var sb strings.Builder
	sb.WriteString("# Available tools\n")
	for _, d := range defs {
		params, _ := json.Marshal(d.Parameters)
		fmt.Fprintf(&sb, "- %s: %s\n  parameters: %s\n", d.Name, d.Description, params)
	}

	b := block(BlockTools, sb.String())
	c.rendered.Add(id, b)
	return b
}

// SystemBlock renders the system-instruction block.
func (c *Controller) SystemBlock(instructions string) llmprovider.CacheBlock {
	id := BlockSystem + ":" + digest([]byte(instructions))
	if b, ok := c.rendered.Get(id); ok {
		return b
	}
	b := block(BlockSystem, instructions)
	c.rendered.Add(id, b)
	return b
}

// MemoryBlock renders the memory block for a committed snapshot. Repeated
// iterations within one loop invocation reuse the cached rendition because
// the snapshot version has not moved.
func (c *Controller) MemoryBlock(snap *memory.Snapshot) llmprovider.CacheBlock {
	id := fmt.Sprintf("%s:%d", BlockMemory, snap.Version)
	if b, ok := c.rendered.Get(id); ok {
		return b
	}

	b := block(BlockMemory, renderMemory(snap))
	c.rendered.Add(id, b)
	return b
}

func renderMemory(snap *memory.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Memory (v%d)\n", snap.Version)

	if snap.Summary != "" {
		sb.WriteString("## Summary of earlier conversations\n")
		sb.WriteString(snap.Summary)
		sb.WriteString("\n")
	}

	if snap.ActiveProjectID != "" {
		fmt.Fprintf(&sb, "## Active project\n%s\n", snap.ActiveProjectID)
	}

	if len(snap.Learnings) > 0 {
		sb.WriteString("## Learnings\n")
		categories := make([]string, 0, len(snap.Learnings))
		for c := range snap.Learnings {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, cat := range categories {
			fmt.Fprintf(&sb, "### %s\n", cat)
			for _, item := range snap.Learnings[cat] {
				fmt.Fprintf(&sb, "- %s\n", item)
			}
		}
	}

	if len(snap.RecentMessages) > 0 {
		sb.WriteString("## Recent conversation\n")
		for _, t := range snap.RecentMessages {
			fmt.Fprintf(&sb, "[%s] %s\n", t.Role, t.Text)
		}
	}

	return sb.String()
}

func block(label, content string) llmprovider.CacheBlock {
	return llmprovider.CacheBlock{
		Label:    label,
		CacheKey: digest([]byte(content)),
		Content:  content,
	}
}

func digest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
