package prospect

import "github.com/rotisserie/eris"

// Sentinel errors for the failure modes the CLI and HTTP surfaces translate
// into user-facing messages.
var (
	// ErrNoLeads means the search completed but matched nothing.
	ErrNoLeads = eris.New("prospect: no establishments found")

	// ErrNoSession means an operation referenced a session that does not exist.
	ErrNoSession = eris.New("prospect: session not found")

	// ErrNoLead means an operation referenced a lead ID outside the session.
	ErrNoLead = eris.New("prospect: lead not found in session")

	// ErrNoSelection means an export or messaging run had nothing selected.
	ErrNoSelection = eris.New("prospect: no leads selected")
)
