package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/lpdesign/prospector/internal/config"
	"github.com/lpdesign/prospector/internal/model"
	"github.com/lpdesign/prospector/internal/whatsapp"
)

func testExporter() *Exporter {
	return New(whatsapp.NewBuilder(config.WhatsAppConfig{
		CountryCode:      "55",
		DefaultMessage:   "Olá, {empresa}!",
		EmptyPhonePolicy: "omit",
	}))
}

func sampleLeads() []model.Lead {
	return []model.Lead{
		{
			ID:           1,
			Name:         "Padaria Central",
			NicheGeneral: "Padarias",
			State:        "ES",
			City:         "Vitória",
			Address:      "Rua Sete, 120",
			Phone:        "27999990001",
			Email:        "contato@padariacentral.com.br",
			Website:      "https://padariacentral.com.br",
			DistanceKm:   1.2,
			Score: &model.ScoreResult{
				Opportunity: 55,
				Tier:        model.TierMedium,
				Reasons:     []string{"SEO fraco", "Sem redes sociais"},
				Suggestions: []string{"Otimização de SEO", "Gestão de redes sociais"},
			},
		},
		{
			ID:   2,
			Name: "Açougue do Zé",
			City: "Vitória",
		},
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testExporter().CSV(&buf, sampleLeads()))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, strings.Join(headers, ","), lines[0])
	assert.Contains(t, lines[1], "Padaria Central")
	assert.Contains(t, lines[1], "https://wa.me/5527999990001")
	assert.Contains(t, lines[1], "SEO fraco; Sem redes sociais")
	assert.Contains(t, lines[1], "1,2")
	// No phone: whatsapp column stays empty instead of failing the export.
	assert.Contains(t, lines[2], "Açougue do Zé")
	assert.NotContains(t, lines[2], "wa.me")
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testExporter().XLSX(&buf, "Prospecção", sampleLeads()))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Prospecção", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "nome", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Padaria Central", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "55", sheet.Rows[1].Cells[11].Value)
	assert.Equal(t, "Média", sheet.Rows[1].Cells[12].Value)
}

func TestCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testExporter().CSV(&buf, nil))
	assert.Equal(t, strings.Join(headers, ",")+"\n", buf.String())
}
