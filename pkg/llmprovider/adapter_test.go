package llmprovider

import (
	"testing"
)

func TestToDeepSeekRequest_RepeatedCallsGetUniqueIDs(t *testing.T) {
	req := &Request{
		Messages: []Message{
			{Role: "assistant", Parts: []Part{
				{FunctionCall: &FunctionCall{Name: "render_image", Args: map[string]interface{}{"prompt": "spring shoes"}}},
				{FunctionCall: &FunctionCall{Name: "render_image", Args: map[string]interface{}{"prompt": "summer shoes"}}},
			}},
			{Role: "tool", Parts: []Part{
				{FunctionResponse: &FunctionResponse{Name: "render_image", Response: map[string]interface{}{"id": "a1"}}},
				{FunctionResponse: &FunctionResponse{Name: "render_image", Response: map[string]interface{}{"id": "a2"}}},
			}},
		},
	}

	out, err := toDeepSeekRequest(req)
	if err != nil {
		t.Fatalf("toDeepSeekRequest: %v", err)
	}

	var callIDs, responseIDs []string
	for _, m := range out.Messages {
		for _, tc := range m.ToolCalls {
			callIDs = append(callIDs, tc.ID)
		}
		if m.Role == "tool" {
			responseIDs = append(responseIDs, m.ToolCallID)
		}
	}

	if len(callIDs) != 2 || len(responseIDs) != 2 {
		t.Fatalf("expected 2 calls and 2 responses, got %d/%d", len(callIDs), len(responseIDs))
	}
	if callIDs[0] == callIDs[1] {
		t.Errorf("repeated calls to the same function share an id: %q", callIDs[0])
	}
	for i := range callIDs {
		if callIDs[i] != responseIDs[i] {
			t.Errorf("response %d id %q does not match call id %q", i, responseIDs[i], callIDs[i])
		}
	}
}

func TestRenderSystemText_FoldsBlocksInDeclaredOrder(t *testing.T) {
	req := &Request{
		CacheBlocks: []CacheBlock{
			{Label: "tools", CacheKey: "t1", Content: "TOOLS"},
			{Label: "system", CacheKey: "s1", Content: ""},
			{Label: "memory", CacheKey: "m1", Content: "MEMORY"},
		},
		SystemInstruction: &Message{Role: "system", Parts: []Part{{Text: "INSTRUCTION"}}},
	}

	want := "TOOLS\n\nMEMORY\n\nINSTRUCTION"
	if got := renderSystemText(req); got != want {
		t.Errorf("rendered system text:\ngot  %q\nwant %q", got, want)
	}
	// Same input must render byte-identically or the provider-side prompt
	// cache never hits.
	if first, second := renderSystemText(req), renderSystemText(req); first != second {
		t.Errorf("render is not deterministic: %q vs %q", first, second)
	}
}

func TestRenderSystemText_EmptyRequest(t *testing.T) {
	if got := renderSystemText(&Request{}); got != "" {
		t.Errorf("empty request should render empty system text, got %q", got)
	}
}
