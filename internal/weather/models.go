package weather

import "strings"

// DefaultCity is queried when the visitor has not saved a city yet.
const DefaultCity = "zadar"

// ForecastDays is the fixed number of days requested from the daily forecast endpoint.
const ForecastDays = 7

// Lang is a provider response language.
type Lang string

const (
	LangCroatian Lang = "hr"
	LangEnglish  Lang = "en"
	LangGerman   Lang = "de"
)

// Langs lists the languages offered on the settings form, in display order.
var Langs = []Lang{LangCroatian, LangEnglish, LangGerman}

// Valid reports whether l is one of the supported languages.
func (l Lang) Valid() bool {
	for _, v := range Langs {
		if l == v {
			return true
		}
	}
	return false
}

// Units is the measurement system the provider reports in.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// AllUnits lists the unit systems offered on the settings form.
var AllUnits = []Units{UnitsMetric, UnitsImperial}

// Valid reports whether u is one of the supported unit systems.
func (u Units) Valid() bool {
	return u == UnitsMetric || u == UnitsImperial
}

// Preferences is what a visitor saved on the settings page.
// The zero value of each field means "not set".
type Preferences struct {
	City  string `json:"city"`
	Lang  Lang   `json:"lang"`
	Units Units  `json:"units"`
}

// CityOrDefault returns the saved city exactly as stored, or DefaultCity
// when none is saved or it is blank.
func (p Preferences) CityOrDefault() string {
	if strings.TrimSpace(p.City) != "" {
		return p.City
	}
	return DefaultCity
}

// Query holds the outbound parameters for a single provider call.
// It is built per request and never stored.
type Query struct {
	City   string
	APIKey string
	Units  Units
	Lang   Lang
	Count  int
}

// NewQuery builds the query for prefs. Unset language and units stay empty so
// the provider applies its own defaults.
func NewQuery(prefs Preferences, apiKey string) Query {
	return Query{
		City:   prefs.CityOrDefault(),
		APIKey: apiKey,
		Units:  prefs.Units,
		Lang:   prefs.Lang,
	}
}

// Result is the provider's decoded JSON body. Its shape is not checked: an
// error payload from the provider is a valid Result.
type Result map[string]any
