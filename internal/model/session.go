package model

import "time"

// Session holds the state of one prospecting search: the parameters, the
// resolved center coordinate, the leads found, and the operator's selection
// set. A new search replaces the session wholesale; the selection set never
// survives a new search.
type Session struct {
	ID            string       `json:"id"`
	State         string       `json:"state"`
	City          string       `json:"city"`
	Niche         string       `json:"niche"`
	Category      string       `json:"category,omitempty"`
	RadiusKm      int          `json:"radius_km"`
	CenterLat     float64      `json:"center_lat"`
	CenterLon     float64      `json:"center_lon"`
	CenterDefault bool         `json:"center_default"` // geocoding fell back to the default coordinate
	Leads         []Lead       `json:"leads"`
	Selected      map[int]bool `json:"selected,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Select marks or unmarks a lead in the selection set. Unknown IDs are
// ignored by callers that validate against Leads; the map itself does not.
func (s *Session) Select(leadID int, selected bool) {
	if s.Selected == nil {
		s.Selected = make(map[int]bool)
	}
	if selected {
		s.Selected[leadID] = true
	} else {
		delete(s.Selected, leadID)
	}
}

// SelectedLeads returns the leads in the selection set, in lead-ID order.
func (s *Session) SelectedLeads() []Lead {
	var out []Lead
	for _, l := range s.Leads {
		if s.Selected[l.ID] {
			out = append(out, l)
		}
	}
	return out
}

// Lead returns the lead with the given ID, or nil.
func (s *Session) Lead(id int) *Lead {
	for i := range s.Leads {
		if s.Leads[i].ID == id {
			return &s.Leads[i]
		}
	}
	return nil
}

// SessionSummary is the listing view of a stored session.
type SessionSummary struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	City      string    `json:"city"`
	Niche     string    `json:"niche"`
	LeadCount int       `json:"lead_count"`
	Selected  int       `json:"selected"`
	CreatedAt time.Time `json:"created_at"`
}
