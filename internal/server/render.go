package server

import (
	"html/template"
	"io"

	"github.com/jpalmerr/missioncontrol/internal/store"
)

var panelTemplate = template.Must(template.New("panel").Parse(
	`<section class="panel" id="panel-{{.Name}}" data-kind="{{.Kind}}">
<h2>{{.Title}}</h2>
{{with .Error}}<div class="alert stale" role="alert">{{.}}</div>
{{end}}{{if .Rows}}<table class="table">
<tbody>
{{range .Rows}}<tr{{with .Class}} class="{{.}}"{{end}}>{{range .Cells}}<td>{{if .Href}}<a href="{{.Href}}">{{.Text}}</a>{{else}}{{.Text}}{{end}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{end}}{{if .Buttons}}<div class="buttons">
{{range .Buttons}}{{if .Href}}<a href="{{.Href}}">{{end}}<button type="button" class="{{.Class}}"{{with .Title}} title="{{.}}"{{end}}{{with .Navigate}} data-href="{{.}}"{{end}}>{{.Label}}</button>{{if .Href}}</a>{{end}}
{{end}}</div>
{{end}}{{if not (or .Rows .Buttons)}}<p class="empty">Nothing to show</p>
{{end}}</section>
`))

type panelView struct {
	Name    string
	Title   string
	Kind    string
	Error   string
	Rows    []store.Element
	Buttons []store.Element
}

// RenderPanel writes snapshot as an HTML fragment. Rows are rendered as a
// table and buttons as a button bar; all text is HTML-escaped.
func RenderPanel(w io.Writer, snapshot store.PanelSnapshot) error {
	view := panelView{
		Name:  snapshot.Name,
		Title: snapshot.Title,
		Kind:  snapshot.Kind,
	}
	if snapshot.Error != nil {
		view.Error = *snapshot.Error
	}
	for _, el := range snapshot.Elements {
		switch el.Kind {
		case "row":
			view.Rows = append(view.Rows, el)
		case "button":
			view.Buttons = append(view.Buttons, el)
		}
	}
	return panelTemplate.Execute(w, view)
}
