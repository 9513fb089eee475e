package works

import (
	"strconv"
	"time"
)

// FieldChange is one entry of the "cambios" list stored in the history log.
type FieldChange struct {
	Field  string `json:"campo"`
	Before string `json:"anterior"`
	After  string `json:"nuevo"`
}

type trackedField struct {
	name   string
	render func(a *Artwork) string
}

// trackedFields are compared on every edit, in this order. Author and image are
// compared by the update handler, not here.
var trackedFields = []trackedField{
	{"titulo", func(a *Artwork) string { return a.Title }},
	{"estado", func(a *Artwork) string { return string(a.Status) }},
	{"numero_registro", func(a *Artwork) string { return a.RegistrationNumber }},
	{"tecnica_materiales", func(a *Artwork) string { return a.Technique }},
	{"categoria", func(a *Artwork) string { return a.Category }},
	{"procedencia", func(a *Artwork) string { return a.Provenance }},
	{"propietario_original", func(a *Artwork) string { return a.OriginalOwner }},
	{"dimensiones", func(a *Artwork) string { return a.Dimensions }},
	{"estado_conservacion", func(a *Artwork) string { return a.ConservationState }},
	{"descripcion_montaje", func(a *Artwork) string { return a.MountingDescription }},
	{"observaciones_generales", func(a *Artwork) string { return a.GeneralNotes }},
	{"ingreso_aprobado_por", func(a *Artwork) string { return a.ApprovedBy }},
	{"valor_inicial", func(a *Artwork) string { return FormatAmount(a.InitialValue) }},
	{"valor_usd", func(a *Artwork) string { return FormatAmount(a.ValueUSD) }},
	{"fecha_avaluo", func(a *Artwork) string { return FormatDate(a.AppraisalDate) }},
	{"registro_revisado_por", func(a *Artwork) string { return a.ReviewedBy }},
	{"fecha_creacion", func(a *Artwork) string { return a.CreationDate }},
}

// Diff compares the tracked fields of two artwork records by their canonical
// string form and returns one change per differing field.
func Diff(before, after *Artwork) []FieldChange {
	changes := []FieldChange{}
	for _, f := range trackedFields {
		b, a := f.render(before), f.render(after)
		if b != a {
			changes = append(changes, FieldChange{Field: f.name, Before: b, After: a})
		}
	}
	return changes
}

// FormatAmount renders a numeric column the same way regardless of how the
// value was written on input ("1500", "1500.00" and "1.5e3" all give "1500").
func FormatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatDate renders a date column as YYYY-MM-DD in UTC.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// ParseDate accepts YYYY-MM-DD or RFC 3339. Empty input yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseAmount parses a numeric form value. Empty input yields nil.
func ParseAmount(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
