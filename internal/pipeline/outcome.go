package pipeline

// Severity classifies an Outcome the way a dialog box would.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Outcome is the user-facing result of an action.
type Outcome struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Artifact string   `json:"artifact,omitempty"`
	Records  int      `json:"records,omitempty"`
	Years    []int    `json:"years,omitempty"`
	Status   string   `json:"status"`
}

// Dialog titles.
const (
	titleLoad        = "Carga de Datos"
	titleLoadError   = "Error al Cargar Datos"
	titleMissing     = "Datos Faltantes"
	titleVisualize   = "Visualización"
	titleRenderError = "Error de Visualización"
	titleReport      = "Reporte PDF"
	titleReportError = "Error al Generar Reporte"
	titleExport      = "Exportación"
	titleExportError = "Error al Exportar"
)

// Status label texts.
const (
	StatusInitial = "Estado: Sin datos cargados"
	statusLoaded  = "Datos cargados: %d registros."
	statusReport  = "Reporte PDF generado: %s"
)
