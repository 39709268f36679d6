// Package scorer turns a lead's contact data and website probe into an
// opportunity score: the more digital presence the business is missing, the
// higher the score, and the better a prospect it is for design and marketing
// services.
package scorer

import (
	"sort"
	"time"

	"github.com/lpdesign/prospector/internal/config"
	"github.com/lpdesign/prospector/internal/model"
)

// Scorer evaluates leads with a fixed, tunable rule table.
type Scorer struct {
	cfg config.ScorerConfig
}

// New creates a Scorer with the given weights.
func New(cfg config.ScorerConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

type rule struct {
	applies    func(lead *model.Lead, probe *model.SiteProbe) bool
	points     int
	reason     string
	suggestion string
}

// rules returns the rule table in evaluation order. Order matters for which
// suggestions survive the cap.
func (s *Scorer) rules() []rule {
	slow := time.Duration(s.cfg.SlowThreshold) * time.Second
	return []rule{
		{
			applies:    func(l *model.Lead, _ *model.SiteProbe) bool { return !l.HasWebsite() },
			points:     s.cfg.NoWebsite,
			reason:     "Sem site",
			suggestion: "Criação de site",
		},
		{
			applies:    func(l *model.Lead, p *model.SiteProbe) bool { return l.HasWebsite() && (p == nil || !p.Reachable) },
			points:     s.cfg.Unreachable,
			reason:     "Site fora do ar",
			suggestion: "Reconstrução do site",
		},
		{
			applies:    func(l *model.Lead, p *model.SiteProbe) bool { return reachable(l, p) && !p.UsesHTTPS },
			points:     s.cfg.NoHTTPS,
			reason:     "Site sem HTTPS",
			suggestion: "Certificado SSL",
		},
		{
			applies:    func(l *model.Lead, p *model.SiteProbe) bool { return reachable(l, p) && p.ResponseTime > slow },
			points:     s.cfg.SlowResponse,
			reason:     "Site lento",
			suggestion: "Otimização de performance",
		},
		{
			applies:    func(l *model.Lead, p *model.SiteProbe) bool { return reachable(l, p) && !p.HasMobileViewport },
			points:     s.cfg.NoViewport,
			reason:     "Site não responsivo",
			suggestion: "Site responsivo",
		},
		{
			applies:    func(l *model.Lead, p *model.SiteProbe) bool { return reachable(l, p) && p.SEOScore < s.cfg.WeakSEOBelow },
			points:     s.cfg.WeakSEO,
			reason:     "SEO fraco",
			suggestion: "Otimização de SEO",
		},
		{
			applies:    func(l *model.Lead, _ *model.SiteProbe) bool { return !l.HasSocial() },
			points:     s.cfg.NoSocial,
			reason:     "Sem redes sociais",
			suggestion: "Gestão de redes sociais",
		},
		{
			applies: func(l *model.Lead, _ *model.SiteProbe) bool { return !l.HasPhone() },
			points:  s.cfg.NoPhone,
			reason:  "Sem telefone cadastrado",
		},
		{
			applies:    func(l *model.Lead, _ *model.SiteProbe) bool { return !l.HasEmail() },
			points:     s.cfg.NoEmail,
			reason:     "Sem e-mail cadastrado",
			suggestion: "E-mail profissional",
		},
	}
}

func reachable(l *model.Lead, p *model.SiteProbe) bool {
	return l.HasWebsite() && p != nil && p.Reachable
}

// Score evaluates one lead. probe may be nil when the lead has no website or
// the probe step was skipped.
func (s *Scorer) Score(lead *model.Lead, probe *model.SiteProbe) *model.ScoreResult {
	result := &model.ScoreResult{}

	for _, r := range s.rules() {
		if !r.applies(lead, probe) {
			continue
		}
		result.Opportunity += r.points
		result.Reasons = append(result.Reasons, r.reason)
		if r.suggestion != "" {
			result.Suggestions = append(result.Suggestions, r.suggestion)
		}
	}

	// Every lead is a potential branding and marketing customer regardless of
	// which rules fired.
	result.Suggestions = append(result.Suggestions, "Identidade visual", "Marketing digital")
	if limit := s.cfg.MaxSuggestions; limit > 0 && len(result.Suggestions) > limit {
		result.Suggestions = result.Suggestions[:limit]
	}

	if result.Opportunity > 100 {
		result.Opportunity = 100
	}
	result.Tier = s.tier(result.Opportunity)

	if probe != nil {
		result.SEOScore = probe.SEOScore
	}
	result.ContactScore = contactScore(lead, probe)
	return result
}

// ScoreAll evaluates every lead in place, attaching each result to its lead,
// and returns the leads sorted by opportunity descending (stable on ID).
func (s *Scorer) ScoreAll(leads []model.Lead) []model.Lead {
	for i := range leads {
		leads[i].Score = s.Score(&leads[i], leads[i].Probe)
	}
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].Score.Opportunity > leads[j].Score.Opportunity
	})
	return leads
}

func (s *Scorer) tier(score int) model.Tier {
	switch {
	case score >= s.cfg.HighTier:
		return model.TierHigh
	case score >= s.cfg.MediumTier:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

// contactScore measures how complete the lead's public contact data is, the
// inverse perspective of the opportunity score. Out of 100: working site 30,
// phone 25, social presence 20, e-mail 15, opening hours 10.
func contactScore(lead *model.Lead, probe *model.SiteProbe) int {
	score := 0
	if reachable(lead, probe) {
		score += 30
	}
	if lead.HasPhone() {
		score += 25
	}
	if lead.HasSocial() {
		score += 20
	}
	if lead.HasEmail() {
		score += 15
	}
	if lead.OpeningHours != "" {
		score += 10
	}
	return score
}
