// Package output renders leads and sessions as terminal tables.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lpdesign/prospector/internal/model"
)

// Leads renders the lead list of a session, highest opportunity first.
func Leads(leads []model.Lead, selected map[int]bool) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"", "ID", "Empresa", "Telefone", "Site", "Score", "Prioridade", "Motivos"})

	for _, l := range leads {
		mark := ""
		if selected[l.ID] {
			mark = "✓"
		}
		score, tier, reasons := "-", "-", ""
		if l.Score != nil {
			score = fmt.Sprintf("%d", l.Score.Opportunity)
			tier = string(l.Score.Tier)
			reasons = strings.Join(l.Score.Reasons, ", ")
		}
		t.AppendRow(table.Row{mark, l.ID, l.Name, orDash(l.Phone), siteLabel(&l), score, tier, reasons})
	}

	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d leads", len(leads)), "", "", "", "", ""})
	return t.Render()
}

// Sessions renders stored session summaries.
func Sessions(sums []model.SessionSummary) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "UF", "Cidade", "Nicho", "Leads", "Selecionados", "Criada em"})

	for _, s := range sums {
		t.AppendRow(table.Row{s.ID, s.State, s.City, s.Niche, s.LeadCount, s.Selected, s.CreatedAt.Format("2006-01-02 15:04")})
	}
	return t.Render()
}

// Niches renders the niche table with its categories.
func Niches(names []string, categories func(string) []string) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Nicho", "Categorias"})

	for _, name := range names {
		t.AppendRow(table.Row{name, strings.Join(categories(name), ", ")})
	}
	return t.Render()
}

// Probe renders a single probe result.
func Probe(url string, p *model.SiteProbe) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Verificação", "Resultado"})
	t.AppendRows([]table.Row{
		{"URL", url},
		{"No ar", yesNo(p.Reachable)},
		{"HTTPS", yesNo(p.UsesHTTPS)},
		{"Status", p.StatusCode},
		{"Tempo de resposta", p.ResponseTime.Round(time.Millisecond)},
		{"Viewport mobile", yesNo(p.HasMobileViewport)},
		{"WordPress", yesNo(p.IsWordPress)},
		{"SEO", fmt.Sprintf("%d/100", p.SEOScore)},
	})
	return t.Render()
}

func siteLabel(l *model.Lead) string {
	if !l.HasWebsite() {
		return "sem site"
	}
	if l.Probe != nil && !l.Probe.Reachable {
		return "fora do ar"
	}
	return l.Website
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}
