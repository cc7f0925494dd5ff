// Package locale formats the user-facing labels of album views: localized
// dates and pluralized photo counts.
package locale

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.MustParse("fr-FR"), // first entry is the matcher's fallback
	language.MustParse("en-US"),
	language.MustParse("en-GB"),
	language.MustParse("de-DE"),
	language.MustParse("es-ES"),
	language.MustParse("it-IT"),
}

var matcher = language.NewMatcher(supported)

var dateLayouts = map[string]string{
	"fr-FR": "02/01/2006",
	"en-US": "1/2/2006",
	"en-GB": "02/01/2006",
	"de-DE": "2.1.2006",
	"es-ES": "2/1/2006",
	"it-IT": "2/1/2006",
}

type phrases struct {
	photo     string
	photos    string
	createdOn string
	organize  string
}

var french = phrases{
	photo:     "photo",
	photos:    "photos",
	createdOn: "Créé le %s",
	organize:  "Organiser l'album (%s)",
}

var english = phrases{
	photo:     "photo",
	photos:    "photos",
	createdOn: "Created on %s",
	organize:  "Organize album (%s)",
}

// Locale renders labels for one matched language.
type Locale struct {
	tag     language.Tag
	layout  string
	phrases phrases
}

// Default is the French locale the labels were written for.
var Default = New(supported[0])

// New returns the locale closest to tag among the supported ones.
func New(tag language.Tag) Locale {
	_, idx, _ := matcher.Match(tag)
	matched := supported[idx]

	l := Locale{tag: matched, layout: dateLayouts[matched.String()], phrases: english}
	if base, _ := matched.Base(); base.String() == "fr" {
		l.phrases = french
	}
	return l
}

// Parse resolves a BCP 47 tag, falling back to Default.
func Parse(s string) Locale {
	tag, err := language.Parse(s)
	if err != nil {
		return Default
	}
	return New(tag)
}

// FromAcceptLanguage resolves an Accept-Language header, falling back to fallback.
func FromAcceptLanguage(header string, fallback Locale) Locale {
	if header == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return New(supported[idx])
}

// Tag returns the matched language tag.
func (l Locale) Tag() language.Tag { return l.tag }

// Date formats t as a short localized date.
func (l Locale) Date(t time.Time) string {
	return t.Format(l.layout)
}

// PhotoCount renders "1 photo" / "5 photos". Zero stays singular.
func (l Locale) PhotoCount(n int) string {
	if n > 1 {
		return fmt.Sprintf("%d %s", n, l.phrases.photos)
	}
	return fmt.Sprintf("%d %s", n, l.phrases.photo)
}

// CreatedOn renders the creation date line of an album.
func (l Locale) CreatedOn(t time.Time) string {
	return fmt.Sprintf(l.phrases.createdOn, l.Date(t))
}

// OrganizeLabel renders the label of the button leading to the organize stage.
func (l Locale) OrganizeLabel(n int) string {
	return fmt.Sprintf(l.phrases.organize, l.PhotoCount(n))
}
