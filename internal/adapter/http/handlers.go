package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/pipeline"
)

const maxUploadBytes = 32 << 20

type yearRequest struct {
	Year int `json:"year" validate:"required,gte=1900,lte=2100"`
}

type visualizeRequest struct {
	Year int    `json:"year" validate:"required,gte=1900,lte=2100"`
	Kind string `json:"kind" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names in validation errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		// No file chosen.
		out, _ := s.controller.LoadData("")
		s.respond(w, r, http.StatusBadRequest, out)
		return
	}
	defer file.Close()

	path, err := s.spool(file)
	if err != nil {
		s.logger.Error("spool upload failed", "filename", header.Filename, "error", err)
		s.respond(w, r, http.StatusInternalServerError, pipeline.Outcome{
			Severity: pipeline.SeverityError,
			Title:    "Error al Cargar Datos",
			Message:  "No se pudo leer el archivo subido.",
		})
		return
	}
	defer os.Remove(path)

	s.logger.Info("dataset uploaded", "filename", header.Filename, "bytes", header.Size)
	out, err := s.controller.LoadData(path)
	s.respond(w, r, statusFor(err), out)
}

// spool copies an upload to a temporary file the loader can open by path.
func (s *Server) spool(src io.Reader) (string, error) {
	f, err := os.CreateTemp("", "quake-upload-*.xlsx")
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("copy upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return f.Name(), nil
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	years := s.controller.Years()
	if years == nil {
		years = []int{}
	}
	render.JSON(w, r, map[string][]int{"years": years})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": s.controller.Status()})
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	var req visualizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		s.respond(w, r, http.StatusBadRequest, badRequest(fmt.Sprintf("Visualización desconocida: %q.", req.Kind)))
		return
	}
	out, err := s.controller.ApplyFilters(r.Context(), req.Year, kind)
	s.respond(w, r, statusFor(err), out)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req yearRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.controller.GenerateReport(r.Context(), req.Year)
	s.respond(w, r, statusFor(err), out)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req yearRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.controller.Export(r.Context(), req.Year)
	s.respond(w, r, statusFor(err), out)
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	png, title, ok := s.panel.Snapshot()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Panel-Title", title)
	_, _ = w.Write(png)
}

// decode parses and validates a JSON body, answering 400 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		s.respond(w, r, http.StatusBadRequest, badRequest("Cuerpo JSON inválido."))
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			s.respond(w, r, http.StatusBadRequest, badRequest(fmt.Sprintf("Campo %s inválido (%s).", fe.Field(), fe.Tag())))
			return false
		}
		s.respond(w, r, http.StatusBadRequest, badRequest(err.Error()))
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, out pipeline.Outcome) {
	if out.Status == "" {
		out.Status = s.controller.Status()
	}
	render.Status(r, status)
	render.JSON(w, r, out)
}

// statusFor maps an action error to an HTTP status. Warnings come back with
// a nil error and are reported as 200.
func statusFor(err error) int {
	var le *domain.LoadError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &le):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(msg string) pipeline.Outcome {
	return pipeline.Outcome{Severity: pipeline.SeverityError, Title: "Solicitud Inválida", Message: msg}
}
