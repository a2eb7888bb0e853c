package main

import (
	"github.com/charmbracelet/huh"

	"datatable/session"
)

// huhConfirmer asks on the terminal. A form error counts as no.
type huhConfirmer struct{}

func (huhConfirmer) Confirm(prompt string) bool {
	ok := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(prompt).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false
	}
	return ok
}

// huhNamePrompter asks for a preset name.
type huhNamePrompter struct{}

func (huhNamePrompter) PromptName() (string, bool) {
	name := ""
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Preset name").
			Description("Name of the new preset.").
			Value(&name),
	))
	if err := form.Run(); err != nil {
		return "", false
	}
	return name, name != ""
}

func confirmerFor(flags *rootFlags) session.Confirmer {
	if flags.yes {
		return session.Always
	}
	return huhConfirmer{}
}

func namePrompterFor(args []string) session.NamePrompter {
	if len(args) > 0 {
		return session.StaticName(args[0])
	}
	return huhNamePrompter{}
}
