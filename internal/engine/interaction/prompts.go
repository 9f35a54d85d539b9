package interaction

import "github.com/google/uuid"

// PromptKind distinguishes the questions a session can ask its host.
type PromptKind int

const (
	// PromptEdit asks for a new label.
	PromptEdit PromptKind = iota
	// PromptDelete asks for confirmation of a removal.
	PromptDelete
)

// Prompt is an open request waiting for the host's answer.
type Prompt struct {
	ID     string
	Kind   PromptKind
	NodeID string
}

// Prompts tracks open requests by id.
type Prompts struct {
	newID   func() string
	pending map[string]Prompt
}

// NewPrompts creates an empty tracker. A nil id generator uses random UUIDs.
func NewPrompts(newID func() string) *Prompts {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Prompts{newID: newID, pending: make(map[string]Prompt)}
}

// Open registers a new request.
func (p *Prompts) Open(kind PromptKind, nodeID string) Prompt {
	prompt := Prompt{ID: p.newID(), Kind: kind, NodeID: nodeID}
	p.pending[prompt.ID] = prompt
	return prompt
}

// Resolve removes and returns the request with the given id and kind.
// Unknown ids and kind mismatches report false.
func (p *Prompts) Resolve(id string, kind PromptKind) (Prompt, bool) {
	prompt, ok := p.pending[id]
	if !ok || prompt.Kind != kind {
		return Prompt{}, false
	}
	delete(p.pending, id)
	return prompt, true
}

// Len returns the number of open requests.
func (p *Prompts) Len() int {
	return len(p.pending)
}

// Reset drops every open request.
func (p *Prompts) Reset() {
	clear(p.pending)
}
