package model

import (
	"strings"
	"time"
)

// Lead represents a prospective client business discovered via the map-data
// search. IDs are 1-based and unique within a single search session.
type Lead struct {
	ID            int       `json:"id" csv:"id"`
	Name          string    `json:"name" csv:"empresa"`
	NicheGeneral  string    `json:"niche_general" csv:"nicho_geral"`
	NicheSpecific string    `json:"niche_specific" csv:"nicho_especifico"`
	State         string    `json:"state" csv:"estado"`
	City          string    `json:"city" csv:"cidade"`
	Address       string    `json:"address" csv:"endereco"`
	Phone         string    `json:"phone" csv:"telefone"`
	WhatsApp      string    `json:"whatsapp" csv:"whatsapp"`
	Email         string    `json:"email" csv:"email"`
	Website       string    `json:"website" csv:"site"`
	Facebook      string    `json:"facebook" csv:"facebook"`
	Instagram     string    `json:"instagram" csv:"instagram"`
	OpeningHours  string    `json:"opening_hours" csv:"horario"`
	Latitude      float64   `json:"latitude" csv:"lat"`
	Longitude     float64   `json:"longitude" csv:"lon"`
	DistanceKm    float64   `json:"distance_km" csv:"distancia_km"`
	Probe         *SiteProbe   `json:"probe,omitempty" csv:"-"`
	Score         *ScoreResult `json:"score,omitempty" csv:"-"`
}

// HasWebsite reports whether the lead has a website tag.
func (l *Lead) HasWebsite() bool { return strings.TrimSpace(l.Website) != "" }

// HasSocial reports whether the lead has at least one social-media link.
func (l *Lead) HasSocial() bool {
	return strings.TrimSpace(l.Facebook) != "" || strings.TrimSpace(l.Instagram) != ""
}

// HasPhone reports whether the lead has a phone number.
func (l *Lead) HasPhone() bool { return strings.TrimSpace(l.Phone) != "" }

// HasEmail reports whether the lead has a plausible email address.
func (l *Lead) HasEmail() bool {
	return strings.Contains(l.Email, "@")
}

// SiteProbe holds the result of a best-effort HTTP probe of a lead's website.
// A zero-value probe (all false) is what a failed probe produces.
type SiteProbe struct {
	Reachable         bool          `json:"reachable"`
	UsesHTTPS         bool          `json:"uses_https"`
	StatusCode        int           `json:"status_code"`
	ResponseTime      time.Duration `json:"response_time"`
	HasMobileViewport bool          `json:"has_mobile_viewport"`
	IsWordPress       bool          `json:"is_wordpress"`
	SEOScore          int           `json:"seo_score"`
	ProbedAt          time.Time     `json:"probed_at"`
}

// Tier is the coarse priority bucket derived from the opportunity score.
type Tier string

const (
	TierLow    Tier = "Baixa"
	TierMedium Tier = "Média"
	TierHigh   Tier = "Alta"
)

// ScoreResult is the outcome of scoring one lead. Opportunity measures how
// much digital-presence work the lead plausibly needs: every missing signal
// adds points, so a fully present lead scores zero.
type ScoreResult struct {
	Opportunity  int      `json:"opportunity"`
	Tier         Tier     `json:"tier"`
	Reasons      []string `json:"reasons,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
	SEOScore     int      `json:"seo_score"`
	ContactScore int      `json:"contact_score"`
}
