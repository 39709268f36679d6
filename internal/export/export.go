// Package export writes sessions out as CSV or XLSX files for handoff to
// whoever runs the outreach.
package export

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/lpdesign/prospector/internal/model"
	"github.com/lpdesign/prospector/internal/whatsapp"
)

// row is the flattened export shape. Nested probe and score data collapse
// into spreadsheet-friendly columns.
type row struct {
	Name        string `csv:"nome"`
	Niche       string `csv:"nicho"`
	City        string `csv:"cidade"`
	State       string `csv:"uf"`
	Address     string `csv:"endereco"`
	Phone       string `csv:"telefone"`
	WhatsApp    string `csv:"whatsapp"`
	Email       string `csv:"email"`
	Website     string `csv:"site"`
	Instagram   string `csv:"instagram"`
	Facebook    string `csv:"facebook"`
	Opportunity int    `csv:"oportunidade"`
	Tier        string `csv:"prioridade"`
	Reasons     string `csv:"motivos"`
	Suggestions string `csv:"sugestoes"`
	DistanceKm  string `csv:"distancia_km"`
}

var headers = []string{
	"nome", "nicho", "cidade", "uf", "endereco", "telefone", "whatsapp",
	"email", "site", "instagram", "facebook", "oportunidade", "prioridade",
	"motivos", "sugestoes", "distancia_km",
}

// Exporter writes leads to files. WhatsApp links are generated on the way
// out so exported rows are ready to use.
type Exporter struct {
	wa *whatsapp.Builder
}

// New creates an Exporter.
func New(wa *whatsapp.Builder) *Exporter {
	return &Exporter{wa: wa}
}

func (e *Exporter) toRow(lead *model.Lead) row {
	r := row{
		Name:      lead.Name,
		Niche:     lead.NicheGeneral,
		City:      lead.City,
		State:     lead.State,
		Address:   lead.Address,
		Phone:     lead.Phone,
		Email:     lead.Email,
		Website:   lead.Website,
		Instagram: lead.Instagram,
		Facebook:  lead.Facebook,
	}
	if lead.NicheSpecific != "" {
		r.Niche = lead.NicheSpecific
	}
	if lead.DistanceKm > 0 {
		r.DistanceKm = strings.Replace(formatKm(lead.DistanceKm), ".", ",", 1)
	}
	if lead.Score != nil {
		r.Opportunity = lead.Score.Opportunity
		r.Tier = string(lead.Score.Tier)
		r.Reasons = strings.Join(lead.Score.Reasons, "; ")
		r.Suggestions = strings.Join(lead.Score.Suggestions, "; ")
	}
	if e.wa != nil {
		// A lead without a phone simply gets an empty column.
		if link, err := e.wa.Link(lead); err == nil {
			r.WhatsApp = link
		}
	}
	return r
}

// CSV writes the leads as UTF-8 CSV with a header row.
func (e *Exporter) CSV(w io.Writer, leads []model.Lead) error {
	rows := make([]row, 0, len(leads))
	for i := range leads {
		rows = append(rows, e.toRow(&leads[i]))
	}
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "export: encode csv")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "export: write csv")
	}
	return nil
}

// CSVFile writes the leads to a CSV file at path.
func (e *Exporter) CSVFile(path string, leads []model.Lead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create csv file")
	}
	defer f.Close() //nolint:errcheck

	if err := e.CSV(f, leads); err != nil {
		return err
	}
	return eris.Wrap(f.Close(), "export: close csv file")
}

// XLSX writes the leads as a single-sheet workbook with a styled header.
func (e *Exporter) XLSX(w io.Writer, sheetName string, leads []model.Lead) error {
	if sheetName == "" {
		sheetName = "Leads"
	}
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	headerStyle := xlsx.NewStyle()
	headerStyle.Font.Bold = true
	headerStyle.Fill = *xlsx.NewFill("solid", "FF2F5496", "FF2F5496")
	headerStyle.Font.Color = "FFFFFFFF"
	headerStyle.ApplyFont = true
	headerStyle.ApplyFill = true

	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.Value = h
		cell.SetStyle(headerStyle)
	}

	for i := range leads {
		r := e.toRow(&leads[i])
		xr := sheet.AddRow()
		for _, v := range []string{
			r.Name, r.Niche, r.City, r.State, r.Address, r.Phone, r.WhatsApp,
			r.Email, r.Website, r.Instagram, r.Facebook,
			formatInt(r.Opportunity), r.Tier, r.Reasons, r.Suggestions, r.DistanceKm,
		} {
			xr.AddCell().Value = v
		}
	}

	sheet.SetColWidth(0, 0, 32)
	sheet.SetColWidth(1, 4, 24)
	sheet.SetColWidth(5, 10, 28)
	sheet.SetColWidth(13, 14, 48)

	if err := file.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

func formatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', 1, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

// XLSXFile writes the leads to an XLSX file at path.
func (e *Exporter) XLSXFile(path, sheetName string, leads []model.Lead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create xlsx file")
	}
	defer f.Close() //nolint:errcheck

	if err := e.XLSX(f, sheetName, leads); err != nil {
		return err
	}
	return eris.Wrap(f.Close(), "export: close xlsx file")
}
