package http

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/couchcryptid/quake-report/internal/domain"
)

//go:embed index.html.tmpl
var indexSource string

var indexTemplate = template.Must(template.New("index").Parse(indexSource))

type kindOption struct {
	Key   string
	Label string
}

type indexData struct {
	Title  string
	Status string
	Years  []int
	Kinds  []kindOption
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	data := indexData{
		Title:  "Visualización de Sismos en Perú",
		Status: s.controller.Status(),
		Years:  s.controller.Years(),
	}
	for _, k := range domain.Kinds {
		data.Kinds = append(data.Kinds, kindOption{Key: k.Key(), Label: k.Label()})
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("render index failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
