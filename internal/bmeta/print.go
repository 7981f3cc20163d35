// Package bmeta метаданные сборки, которые выставляются через -ldflags -X.
package bmeta

import (
	"fmt"
	"io"
	"os"
)

const defaultBuildMeta = "N/A" // Значение по умолчанию

// Meta версия, дата и коммит сборки.
type Meta struct {
	Version string
	Date    string
	Commit  string
}

// New подставляет N/A вместо незаданных значений.
func New(version, date, commit string) Meta {
	return Meta{
		Version: orDefault(version),
		Date:    orDefault(date),
		Commit:  orDefault(commit),
	}
}

// Fprint пишет метаданные сборки в w.
func (m Meta) Fprint(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Build version: %s\nBuild date: %s\nBuild commit: %s\n", m.Version, m.Date, m.Commit)
}

// Print Распечатывает версию, дату и комит сборки в stdout.
func Print(version, date, commit string) {
	New(version, date, commit).Fprint(os.Stdout)
}

func orDefault(v string) string {
	if v == "" {
		return defaultBuildMeta
	}
	return v
}
