package codegen

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultHeader is prepended to generated output unless a custom header
// is configured or headers are disabled.
const DefaultHeader = `// -----------------------------------------------------------------------
//              <- DBC file Go mapping ->
// -----------------------------------------------------------------------
//  Do not edit this file, it is regenerated by the canforge generator.
//  Check the generator options (uid, filters, range checks) instead.
//  Reference: github.com/BIwashi/canforge
// -----------------------------------------------------------------------
`

// prologueTemplate renders the provenance banner, package clause and
// import block of one generated source unit.
const prologueTemplate = `// --------------------------------------------------------------
//       WARNING: Manual modification will be destroyed
// --------------------------------------------------------------
// - code generated from {{.Source}} ({{.Time}})
// - update only with [canforge gen|codegen.Generator]
// - source code: https://github.com/BIwashi/canforge
// --------------------------------------------------------------
package {{.Package}}

import (
{{- if .Serde}}
	"encoding/json"
{{- end}}
	"fmt"
	"sort"

	"github.com/BIwashi/canforge/pkg/canrt"
)
`

type prologueData struct {
	Source  string
	Time    string
	Package string
	Serde   bool
}

// codeWriter accumulates generated source. Rendering happens fully in
// memory; the output file is only written after the whole unit
// succeeded, so a failed run never leaves a plausible partial file.
type codeWriter struct {
	buf bytes.Buffer
}

func (w *codeWriter) line(text string) {
	w.buf.WriteString(text)
	w.buf.WriteByte('\n')
}

func (w *codeWriter) printf(format string, args ...any) {
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteByte('\n')
}

func (w *codeWriter) blank() {
	w.buf.WriteByte('\n')
}

func (w *codeWriter) bytes() []byte {
	return w.buf.Bytes()
}

func (w *codeWriter) prologue(header, source, pkg string, serde bool) error {
	if header != "" {
		w.buf.WriteString(header)
		if header[len(header)-1] != '\n' {
			w.buf.WriteByte('\n')
		}
	}

	tmpl, err := template.New("prologue").Parse(prologueTemplate)
	if err != nil {
		return errors.Wrap(err, "parse prologue template")
	}
	data := prologueData{
		Source:  source,
		Time:    time.Now().Format(time.ANSIC),
		Package: pkg,
		Serde:   serde,
	}
	if err := tmpl.Execute(&w.buf, data); err != nil {
		return errors.Wrap(err, "render prologue")
	}

	return nil
}
