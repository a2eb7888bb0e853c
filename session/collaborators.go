package session

import "datatable/tableconfig"

// Renderer receives every committed configuration and reflows the table. It
// must not retain cfg beyond the call unless it copies it.
type Renderer interface {
	Render(tableID string, cfg tableconfig.Config)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(tableID string, cfg tableconfig.Config)

func (f RenderFunc) Render(tableID string, cfg tableconfig.Config) { f(tableID, cfg) }

// Confirmer asks a yes/no question. false aborts the operation with no state
// change.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

var (
	Always Confirmer = ConfirmFunc(func(string) bool { return true })
	Never  Confirmer = ConfirmFunc(func(string) bool { return false })
)

// NamePrompter supplies a preset name. ok=false means the prompt was
// cancelled.
type NamePrompter interface {
	PromptName() (name string, ok bool)
}

// StaticName is a NamePrompter that always answers with itself.
type StaticName string

func (s StaticName) PromptName() (string, bool) { return string(s), s != "" }

func confirmed(c Confirmer, prompt string) bool {
	return c != nil && c.Confirm(prompt)
}

type nopRenderer struct{}

func (nopRenderer) Render(string, tableconfig.Config) {}
