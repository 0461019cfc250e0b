package app

import (
	"bytes"
	"html/template"

	"place-map/internal/entity"
	"place-map/internal/i18n"
)

var infoWindowTmpl = template.Must(template.New("info_window").Parse(`<div class="place-info">
<h3 class="place-info__title">{{.Place.Title}}</h3>
{{- if .Place.Type}}
<p class="place-info__type">{{.Place.Type}}</p>
{{- end}}
<dl>
{{- if .Place.PostalCode}}
<dt>{{.Labels.PostalCode}}</dt><dd>〒{{.Place.PostalCode}}</dd>
{{- end}}
{{- if .Place.Address}}
<dt>{{.Labels.Address}}</dt><dd>{{.Place.Address}}</dd>
{{- end}}
{{- if .Place.Tel}}
<dt>{{.Labels.Tel}}</dt><dd><a href="tel:{{.Place.Tel}}">{{.Place.Tel}}</a></dd>
{{- end}}
</dl>
{{- if .Place.URL}}
<a class="place-info__link" href="{{.Place.URL}}" target="_blank" rel="noopener">{{.Labels.Website}}</a>
{{- end}}
</div>`))

type infoWindowLabels struct {
	PostalCode string
	Address    string
	Tel        string
	Website    string
}

// RenderInfoWindow：渲染信息窗 HTML；标签取自本地化资源，缺失时使用英文默认值
func RenderInfoWindow(p entity.Place, l *i18n.Localizer) (template.HTML, error) {
	data := struct {
		Place  entity.Place
		Labels infoWindowLabels
	}{
		Place: p,
		Labels: infoWindowLabels{
			PostalCode: label(l, "place.postalCode", "Postal code"),
			Address:    label(l, "place.address", "Address"),
			Tel:        label(l, "place.tel", "Tel"),
			Website:    label(l, "place.url", "Website"),
		},
	}
	var buf bytes.Buffer
	if err := infoWindowTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func label(l *i18n.Localizer, key, def string) string {
	if l == nil {
		return def
	}
	s, err := l.Localize(key, nil)
	if err != nil {
		return def
	}
	return s
}
