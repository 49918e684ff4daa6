// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soaringjerry/dreamhub-tui/internal/ui/styles"
)

// =============================================================================
// LOGIN / REGISTER FORM
// =============================================================================

// FormMode selects between signing in and creating an account.
type FormMode int

const (
	ModeLogin FormMode = iota
	ModeRegister
)

// Title returns the form heading for the mode.
func (m FormMode) Title() string {
	if m == ModeRegister {
		return "Create a DreamHub account"
	}
	return "Sign in to DreamHub"
}

// LoginForm is the credentials form shown before the chat view.
type LoginForm struct {
	username textinput.Model
	password textinput.Model
	focus    int
	mode     FormMode

	errMsg     string
	submitting bool

	theme *styles.Theme
}

// NewLoginForm creates a form focused on the username field.
func NewLoginForm(theme *styles.Theme) LoginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Width = 32
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 32
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return LoginForm{
		username: username,
		password: password,
		theme:    theme,
	}
}

// Mode returns the current form mode.
func (f *LoginForm) Mode() FormMode {
	return f.mode
}

// ToggleMode flips between login and register, keeping the typed
// values.
func (f *LoginForm) ToggleMode() {
	if f.mode == ModeLogin {
		f.mode = ModeRegister
	} else {
		f.mode = ModeLogin
	}
	f.errMsg = ""
}

// Values returns the trimmed username and the password as typed.
func (f *LoginForm) Values() (username, password string) {
	return strings.TrimSpace(f.username.Value()), f.password.Value()
}

// Validate checks the form locally before any request goes out.
func (f *LoginForm) Validate() string {
	username, password := f.Values()
	if username == "" {
		return "username is required"
	}
	if password == "" {
		return "password is required"
	}
	if f.mode == ModeRegister && len(password) < 8 {
		return "password must be at least 8 characters"
	}
	return ""
}

// SetError shows an error line under the fields.
func (f *LoginForm) SetError(msg string) {
	f.errMsg = msg
	f.submitting = false
}

// SetSubmitting disables input while a request is in flight.
func (f *LoginForm) SetSubmitting(submitting bool) {
	f.submitting = submitting
	if submitting {
		f.errMsg = ""
	}
}

// IsSubmitting reports whether a request is in flight.
func (f *LoginForm) IsSubmitting() bool {
	return f.submitting
}

// Reset clears the password and errors, keeping the username. Used
// after a failed attempt and after logout.
func (f *LoginForm) Reset() {
	f.password.SetValue("")
	f.errMsg = ""
	f.submitting = false
	f.focusField(0)
}

// Next moves focus to the following field.
func (f *LoginForm) Next() {
	f.focusField((f.focus + 1) % 2)
}

// Prev moves focus to the preceding field.
func (f *LoginForm) Prev() {
	f.focusField((f.focus + 1) % 2)
}

func (f *LoginForm) focusField(i int) {
	f.focus = i
	f.username.Blur()
	f.password.Blur()
	if i == 0 {
		f.username.Focus()
	} else {
		f.password.Focus()
	}
}

// OnLastField reports whether focus is on the password field, meaning
// enter should submit rather than advance.
func (f *LoginForm) OnLastField() bool {
	return f.focus == 1
}

// Update forwards key input to the focused field.
func (f LoginForm) Update(msg tea.Msg) (LoginForm, tea.Cmd) {
	if f.submitting {
		return f, nil
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.username, cmd = f.username.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd
}

// View renders the form centered in the given area.
func (f LoginForm) View(width, height int) string {
	var b strings.Builder

	b.WriteString(f.theme.FormTitle.Render(f.mode.Title()))
	b.WriteString("\n\n")
	b.WriteString(f.theme.FormLabel.Render("Username"))
	b.WriteString("\n")
	b.WriteString(f.username.View())
	b.WriteString("\n\n")
	b.WriteString(f.theme.FormLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(f.password.View())
	b.WriteString("\n")

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(f.theme.FormError.Render(styles.StatusIndicators.Error + " " + f.errMsg))
		b.WriteString("\n")
	}
	if f.submitting {
		b.WriteString("\n")
		b.WriteString(f.theme.ThinkingText.Render("Contacting server..."))
		b.WriteString("\n")
	}

	hint := "enter submit"
	if f.mode == ModeLogin {
		hint += "  ctrl+r register instead"
	} else {
		hint += "  ctrl+r back to sign in"
	}
	b.WriteString("\n")
	b.WriteString(f.theme.ShortcutDesc.Render(hint))

	box := f.theme.FormBox.Render(b.String())
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
