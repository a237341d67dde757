package ingest

import (
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"jet-tracker/models"
)

// ApplyMapping renames every source column referenced by m to its target
// name. Other columns pass through, except one that already carries the name
// of a target mapped to a different column. Mapping values missing from df
// are ignored here; Validator.CheckMapping reports them.
func ApplyMapping(df dataframe.DataFrame, m models.Mapping) dataframe.DataFrame {
	if df.Err != nil {
		return df
	}

	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}
	rename := make(map[string]string, len(m))
	for _, target := range mappingKeys(m) {
		if source := m[target]; present[source] {
			rename[source] = target
		}
	}
	assigned := make(map[string]bool, len(rename))
	for _, target := range rename {
		assigned[target] = true
	}

	return rebuild(df, func(name string) string {
		if target, ok := rename[name]; ok {
			return target
		}
		if assigned[name] {
			return ""
		}
		return name
	})
}

// CompleteMapping merges overrides into guess. An empty override value
// unassigns the target.
func CompleteMapping(guess, overrides models.Mapping) models.Mapping {
	out := guess.Clone()
	for target, source := range overrides {
		if source == "" {
			delete(out, target)
			continue
		}
		out[target] = source
	}
	return out
}

// CheckMapping reports mapping entries that cannot be applied as written:
// unknown target fields, source columns missing from columns, and source
// columns claimed by more than one target.
func (v *Validator) CheckMapping(columns []string, m models.Mapping) []string {
	p := v.printer()
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var diags []string
	claimed := make(map[string][]string)
	var sources []string
	for _, target := range mappingKeys(m) {
		source := m[target]
		if source == "" {
			continue
		}
		if !models.IsTargetField(target) {
			diags = append(diags, p.Sprintf("Mapping refers to unknown target field '%s'.", target))
			continue
		}
		if !present[source] {
			diags = append(diags, p.Sprintf("Target '%s' is mapped to column '%s', which does not exist.", target, source))
			continue
		}
		if _, seen := claimed[source]; !seen {
			sources = append(sources, source)
		}
		claimed[source] = append(claimed[source], target)
	}

	for _, source := range sources {
		if targets := claimed[source]; len(targets) > 1 {
			diags = append(diags, p.Sprintf("Column '%s' is mapped to more than one target: %s.", source, strings.Join(targets, ", ")))
		}
	}
	return diags
}

// mappingKeys returns the keys of m with target fields first, in canonical
// order, followed by any unknown keys sorted alphabetically.
func mappingKeys(m models.Mapping) []string {
	keys := make([]string, 0, len(m))
	for _, f := range models.TargetFields {
		if _, ok := m[f]; ok {
			keys = append(keys, f)
		}
	}
	var unknown []string
	for k := range m {
		if !models.IsTargetField(k) {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return append(keys, unknown...)
}
