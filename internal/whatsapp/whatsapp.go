// Package whatsapp builds wa.me outreach links from lead phone numbers.
package whatsapp

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/lpdesign/prospector/internal/config"
	"github.com/lpdesign/prospector/internal/model"
)

// ErrNoPhone is returned when a lead has no phone number and the configured
// policy is to omit the link.
var ErrNoPhone = eris.New("whatsapp: lead has no phone number")

// Builder turns leads into ready-to-send WhatsApp links.
type Builder struct {
	cfg config.WhatsAppConfig
}

// NewBuilder creates a Builder.
func NewBuilder(cfg config.WhatsAppConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Link builds the wa.me URL for a lead using the default message template.
func (b *Builder) Link(lead *model.Lead) (string, error) {
	return b.LinkWithMessage(lead, b.cfg.DefaultMessage)
}

// LinkWithMessage builds the wa.me URL with a custom message template. The
// {empresa} placeholder is replaced with the lead's name.
func (b *Builder) LinkWithMessage(lead *model.Lead, template string) (string, error) {
	digits := Digits(lead.Phone)
	if digits == "" {
		if b.cfg.EmptyPhonePolicy == "empty" {
			return b.build("", lead.Name, template), nil
		}
		return "", eris.Wrapf(ErrNoPhone, "whatsapp: %s", lead.Name)
	}
	return b.build(b.normalize(digits), lead.Name, template), nil
}

func (b *Builder) build(number, name, template string) string {
	message := strings.ReplaceAll(template, "{empresa}", name)
	link := "https://wa.me/" + number
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}

// normalize prefixes the country code unless the number already carries it.
// Brazilian local numbers are 10 or 11 digits; anything longer that starts
// with the country code is assumed international.
func (b *Builder) normalize(digits string) string {
	cc := b.cfg.CountryCode
	if cc == "" {
		cc = "55"
	}
	if strings.HasPrefix(digits, cc) && len(digits) > 11 {
		return digits
	}
	return cc + digits
}

// Digits strips everything but the decimal digits from a phone value.
func Digits(phone string) string {
	var sb strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
