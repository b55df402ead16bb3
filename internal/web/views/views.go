// Package views renders the HTML pages of the import service as templ components.
package views

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/tsimport/internal/core"
	"github.com/JonMunkholm/tsimport/internal/store"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// writer accumulates the first write error so markup can be emitted linearly.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) render(ctx context.Context, c templ.Component) {
	if w.err == nil {
		w.err = c.Render(ctx, w.w)
	}
}

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		w.text(title)
		w.raw(`</title><style>body{font-family:sans-serif;margin:2rem}table{border-collapse:collapse}` +
			`td,th{border:1px solid #ccc;padding:.3rem .6rem;text-align:left}.warn{color:#a60}</style></head><body>`)
		w.raw(`<h1>`)
		w.text(title)
		w.raw(`</h1>`)
		w.render(ctx, body)
		w.raw(`</body></html>`)
		return w.err
	})
}

// ImportList renders the upload form and the table of recent imports.
func ImportList(imports []store.Import) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<form method="post" action="/api/imports" enctype="multipart/form-data">` +
			`<input type="file" name="file" required> ` +
			`<input type="text" name="time_column" placeholder="time column (optional)"> ` +
			`<input type="text" name="time_format" placeholder="time format, e.g. yyyy-MM-dd hh:mm:ss.zzz"> ` +
			`<button type="submit">Import</button></form>`)

		if len(imports) == 0 {
			w.raw(`<p>No imports yet.</p>`)
			return w.err
		}

		w.raw(`<table><thead><tr><th>File</th><th>Rows</th><th>Columns</th><th>Time column</th><th>Imported</th></tr></thead><tbody>`)
		for _, imp := range imports {
			w.raw(`<tr><td><a href="/imports/`)
			w.text(imp.ID.String())
			w.raw(`">`)
			w.text(imp.FileName)
			w.raw(`</a></td><td>`)
			w.text(strconv.Itoa(imp.Rows))
			w.raw(`</td><td>`)
			w.text(strconv.Itoa(imp.Columns))
			w.raw(`</td><td>`)
			timeColumn := imp.TimeColumn
			if timeColumn == "" {
				timeColumn = "(row index)"
			}
			w.text(timeColumn)
			if imp.Unsorted {
				w.raw(` <span class="warn">unsorted</span>`)
			}
			w.raw(`</td><td>`)
			w.text(imp.CreatedAt.Format(timeLayout))
			w.raw(`</td></tr>`)
		}
		w.raw(`</tbody></table>`)
		return w.err
	})
}

// ImportDetail renders the column decisions of one import.
func ImportDetail(res core.ImportResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<p>`)
		w.text(fmt.Sprintf("%d rows, delimiter %q, %d bytes", res.Import.Rows, res.Import.Delimiter, res.Import.BytesRead))
		w.raw(`</p><table><thead><tr><th>#</th><th>Name</th><th>Type</th><th>Format</th><th>Sample</th><th>Missing</th></tr></thead><tbody>`)
		for _, c := range res.Columns {
			w.raw(`<tr><td>`)
			w.text(strconv.Itoa(c.Position))
			w.raw(`</td><td>`)
			w.text(c.Name)
			w.raw(`</td><td>`)
			w.text(c.Info.Type.String())
			w.raw(`</td><td>`)
			w.text(c.Info.Format)
			w.raw(`</td><td>`)
			w.text(c.Sample)
			w.raw(`</td><td>`)
			w.text(strconv.Itoa(c.Missing))
			w.raw(`</td></tr>`)
		}
		w.raw(`</tbody></table><p><a href="/">Back</a></p>`)
		return w.err
	})
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(msg core.UserMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<div role="alert"><strong>`)
		w.text(msg.Message)
		w.raw(`</strong>`)
		if msg.Action != "" {
			w.raw(` `)
			w.text(msg.Action)
		}
		w.raw(` <small>(Code: `)
		w.text(msg.Code)
		w.raw(`)</small></div>`)
		return w.err
	})
}
