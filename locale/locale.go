// Package locale holds the message catalog and number formatting for the
// languages the dashboard speaks. English strings are the catalog keys.
package locale

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// german translates the English catalog keys. Keys missing here print as-is.
var german = [][2]string{
	// ingest diagnostics
	{"Missing columns: %s", "Fehlende Spalten: %s"},
	{"Many invalid date values in '%s' (more than %s).", "Viele ungültige Datumswerte in '%s' (mehr als %s)."},
	{"Many invalid values in '%s' (more than %s).", "Viele ungültige Werte in '%s' (mehr als %s)."},
	{"Implausible values: '%s' frequently < %s.", "Unplausible Werte: '%s' häufig < %s."},
	{"Implausible values: '%s' partly > %s.", "Unplausible Werte: '%s' teils > %s."},
	{"Mapping refers to unknown target field '%s'.", "Mapping verweist auf unbekanntes Zielfeld '%s'."},
	{"Target '%s' is mapped to column '%s', which does not exist.", "Zielfeld '%s' ist der Spalte '%s' zugeordnet, die nicht existiert."},
	{"Column '%s' is mapped to more than one target: %s.", "Spalte '%s' ist mehreren Zielfeldern zugeordnet: %s."},

	// dataset resolution
	{"Error while loading: %s", "Fehler beim Laden: %s"},
	{"CSV recognised but not yet valid.", "CSV erkannt, aber noch nicht valide."},
	{"Please fix the mapping or CSV, or switch to demo data.", "Bitte Mapping/CSV korrigieren oder Demo-Daten verwenden."},
	{"CSV loaded: %d flights", "CSV geladen: %d Flüge"},
	{"Default CSV could not be loaded, demo data active.", "Standard-CSV konnte nicht geladen werden, Demo-Daten aktiv."},
	{"No data available, demo data loaded.", "Keine Daten verfügbar, Demo-Daten werden geladen."},
	{"Upload session not found, demo data active.", "Upload-Sitzung nicht gefunden, Demo-Daten aktiv."},
	{"No mapping confirmed yet for the uploaded CSV.", "Für die hochgeladene CSV wurde noch kein Mapping bestätigt."},
	{"Default dataset: %s", "Standard-Datensatz: %s"},
	{"Demo data active.", "Aktuell Demo-Daten aktiv."},

	// dashboard
	{"Flights", "Flüge"},
	{"Avg. distance", "Ø Distanz"},
	{"Total CO₂", "Gesamt-CO₂"},
	{"Avg. duration", "Ø Flugdauer"},
	{"Month", "Monat"},
	{"Number of flights", "Anzahl Flüge"},
	{"Year", "Jahr"},
	{"Flights per month", "Flüge pro Monat"},
	{"CO₂ per year (t)", "CO₂ pro Jahr (t)"},
	{"CO₂ (t)", "CO₂ (t)"},
	{"Demo: small town = %s t CO₂/year, private jet flights ~%s%% of that.", "Demo: Kleinstadt = %s t CO₂/Jahr → Privatjet-Flüge ~%s%% davon."},
	{"Share: %s%%", "Anteil: %s%%"},

	// pages
	{"Private Jet Tracker", "Privatjet-Tracker"},
	{"Data sources", "Datenquellen"},
	{"Methodology", "Methodik"},
	{"Interactive visualisation of private jet flights and CO₂ figures", "Interaktive Visualisierung von Privatjetflügen & CO₂-Kennzahlen"},
	{"Data & filters", "Daten & Filter"},
	{"Data source", "Datenquelle"},
	{"Default dataset", "Standard-Datensatz"},
	{"Uploaded CSV", "Hochgeladene CSV"},
	{"Demo data", "Demo-Daten"},
	{"Upload CSV", "CSV hochladen"},
	{"Column mapping (optional)", "Spalten-Mapping (optional anpassen)"},
	{"not assigned", "nicht zugeordnet"},
	{"Apply mapping", "Mapping übernehmen"},
	{"Discard upload", "Upload verwerfen"},
	{"Year selection", "Jahresauswahl"},
	{"All years", "Alle Jahre"},
	{"Single year", "Ein Jahr"},
	{"Flight route map (interactive)", "Flugroutenkarte (interaktiv)"},
	{"CO₂ trend over the years", "CO₂-Trend über Jahre"},
	{"Comparison: emissions vs. small town", "Vergleich: Emissionen vs. Kleinstadt"},
	{"Data preview", "Datenvorschau"},
	{"Download CSV", "CSV herunterladen"},
	{"Download Excel", "Excel herunterladen"},
	{"Loading…", "Lädt…"},
	{"Welcome to the Private Jet Tracker.", "Willkommen im Privatjet-Tracker."},
	{"This application visualises private jet flights from a structured dataset and shows their ecological impact through maps, figures and charts.", "Diese Anwendung visualisiert Privatjet-Flüge anhand eines strukturierten Datensatzes und stellt deren ökologische Auswirkungen über Karten, Kennzahlen und Diagramme dar."},
	{"The flight data used in this application is based on publicly available information and was structured for analysis and visualisation.", "Die in dieser Anwendung verwendeten Flugdaten basieren auf öffentlich zugänglichen Informationen und wurden für Analyse- und Visualisierungszwecke strukturiert aufbereitet."},
	{"Default dataset loaded successfully.", "Standard-Datensatz erfolgreich geladen."},
	{"Contents of the dataset", "Inhalt des verwendeten Datensatzes"},
	{"Column description", "Beschreibung der Spalten"},
	{"The CSV file could not be found. Make sure it is located at %s.", "Die CSV-Datei konnte nicht gefunden werden. Bitte stelle sicher, dass sich die Datei unter %s befindet."},
	{"Flight date", "Flugdatum"},
	{"Departure airport", "Startflughafen"},
	{"Destination airport", "Zielflughafen"},
	{"Flight distance in kilometres", "Flugdistanz in Kilometern"},
	{"Flight duration in minutes", "Flugdauer in Minuten"},
	{"Estimated CO₂ emissions in kilograms", "Geschätzte CO₂-Emissionen in Kilogramm"},
	{"Coordinates of the departure airport", "Koordinaten des Startflughafens"},
	{"Coordinates of the destination airport", "Koordinaten des Zielflughafens"},
	{"Data preparation", "Datenaufbereitung"},
	{"Column names are trimmed, lower-cased and spaces or hyphens become underscores. Known synonyms are mapped to the ten target fields automatically; the mapping can be adjusted by hand.", "Spaltennamen werden getrimmt, kleingeschrieben und Leerzeichen bzw. Bindestriche durch Unterstriche ersetzt. Bekannte Synonyme werden automatisch den zehn Zielfeldern zugeordnet; das Mapping lässt sich von Hand anpassen."},
	{"Validation", "Validierung"},
	{"A dataset is rejected when more than %s of the dates cannot be read, when more than %s of a numeric column is invalid, or when values fall outside the plausible range too often (below: %s, above: %s).", "Ein Datensatz wird abgelehnt, wenn mehr als %s der Datumswerte unlesbar sind, mehr als %s einer numerischen Spalte ungültig ist oder Werte zu oft außerhalb des plausiblen Bereichs liegen (darunter: %s, darüber: %s)."},
	{"Aggregation", "Aggregation"},
	{"Flights are counted per month, emissions summed per year. Averages and sums skip missing values. Rows without a date or coordinates are dropped.", "Flüge werden pro Monat gezählt, Emissionen pro Jahr summiert. Mittelwerte und Summen ignorieren fehlende Werte. Zeilen ohne Datum oder Koordinaten werden verworfen."},
	{"Limitations", "Grenzen & Unsicherheiten"},
	{"Emission figures are estimates. The small-town comparison uses a placeholder reference of %s t CO₂ per year.", "Emissionswerte sind Schätzungen. Der Kleinstadt-Vergleich nutzt einen Platzhalter-Referenzwert von %s t CO₂ pro Jahr."},
	{"Project goal", "Projektziel"},
	{"Visualise private jet activity and make its ecological impact understandable.", "Privatjet-Flugaktivitäten visualisieren und ökologische Auswirkungen verständlich machen."},
	{"Tech stack", "Tech-Stack"},
}

func init() {
	for _, kv := range german {
		_ = message.SetString(language.German, kv[0], kv[1])
	}
}

// Printer formats catalog messages and numbers for one language.
type Printer struct {
	lang string
	p    *message.Printer
}

// New returns a Printer for "de" or "en". Anything else falls back to German,
// the dashboard's native language.
func New(lang string) *Printer {
	tag := language.German
	code := "de"
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(lang)), "en") {
		tag = language.English
		code = "en"
	}
	return &Printer{lang: code, p: message.NewPrinter(tag)}
}

// Lang is the two-letter language code.
func (p *Printer) Lang() string {
	return p.lang
}

// Sprintf translates key and formats it with args.
func (p *Printer) Sprintf(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// Int formats n with the language's digit grouping ("1.234" in German).
func (p *Printer) Int(n int) string {
	return p.p.Sprintf("%d", n)
}

// Round formats v rounded to an integer with digit grouping.
func (p *Printer) Round(v float64) string {
	if v < 0 {
		return p.Int(-int(-v + 0.5))
	}
	return p.Int(int(v + 0.5))
}

// Percent renders a ratio such as 0.2 as "20%".
func Percent(ratio float64) string {
	return strconv.FormatFloat(math.Round(ratio*10000)/100, 'f', -1, 64) + "%"
}

// Plain renders a number without grouping or trailing zeros.
func Plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Fixed formats v with two decimals in the language's notation ("0,50").
func (p *Printer) Fixed(v float64) string {
	return p.p.Sprintf("%.2f", v)
}
