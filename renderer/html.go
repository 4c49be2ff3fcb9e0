package renderer

import (
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

// renderHTML produces the inline-styled HTML body. Styles are inlined because
// mail clients strip stylesheets; colors come from reportData, already
// derived from the sign of each change figure.
func renderHTML(data reportData) string {
	content, err := fs.ReadFile(templates, "templates/report.html")
	if err != nil {
		return fmt.Sprintf("error reading html template: %v", err)
	}
	tmpl, err := template.New("report").Parse(string(content))
	if err != nil {
		return fmt.Sprintf("error parsing html template: %v", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("error executing html template: %v", err)
	}
	return b.String()
}
