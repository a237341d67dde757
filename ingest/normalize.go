package ingest

import (
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var nameReplacer = strings.NewReplacer(" ", "_", "-", "_")

// NormalizeName trims, lower-cases and replaces spaces and hyphens with
// underscores.
func NormalizeName(name string) string {
	return nameReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// NormalizeColumns returns a copy of df with every column name normalized.
// Rows and cells are untouched. Names that collide after normalization get
// numeric suffixes from gota ("date_0", "date_1").
func NormalizeColumns(df dataframe.DataFrame) dataframe.DataFrame {
	if df.Err != nil {
		return df
	}
	return rebuild(df, func(name string) string { return NormalizeName(name) })
}

// rebuild copies every column of df under the name returned by rename.
// Columns for which rename returns "" are dropped.
func rebuild(df dataframe.DataFrame, rename func(string) string) dataframe.DataFrame {
	names := df.Names()
	cols := make([]series.Series, 0, len(names))
	for _, name := range names {
		newName := rename(name)
		if newName == "" {
			continue
		}
		s := df.Col(name)
		s.Name = newName
		cols = append(cols, s)
	}
	return dataframe.New(cols...)
}
