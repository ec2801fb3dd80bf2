// Package assets carries the build-time embedded resources: the JSON schema
// the config loader validates .semcast.yaml against, and the handlebars
// templates `semcast init` scaffolds new repositories from.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed embedded_schemas
var schemaFS embed.FS

//go:embed embedded_templates
var templateFS embed.FS

// GetSchema returns embedded schema bytes by path relative to the schema
// root (e.g. "config/semcast-config-v1.0.0.yaml").
func GetSchema(relPath string) ([]byte, bool) {
	data, err := schemaFS.ReadFile("embedded_schemas/" + relPath)
	return data, err == nil
}

// GetTemplate returns embedded template bytes by path relative to the
// template root (e.g. "init/semcast.yaml.hbs").
func GetTemplate(relPath string) ([]byte, bool) {
	data, err := templateFS.ReadFile("embedded_templates/" + relPath)
	return data, err == nil
}

// GetTemplatesFS exposes the template tree rooted at the template directory.
func GetTemplatesFS() fs.FS {
	if sub, err := fs.Sub(templateFS, "embedded_templates"); err == nil {
		return sub
	}
	return templateFS
}
