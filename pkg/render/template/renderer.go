package template

import (
	"io"
)

// TemplateRenderer is the seam the markup loader renders page templates
// through before they are parsed into component fragments. Output is returned
// and, when writers are supplied, copied to each of them.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
