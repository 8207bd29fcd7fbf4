// Where: deliriumctl/internal/scaffold/scaffold.go
// What: Render compose overlays and the nginx TLS vhost from embedded templates.
// Why: A fresh install dir must become launchable without hand-writing YAML.
package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/delirium-paste/deliriumctl/internal/profile"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateCache sync.Map

// Data feeds template rendering. Zero values fall back to template defaults.
type Data struct {
	ServerDir string // build context of the server image, relative to the install dir
	ClientDir string
	Domain    string
	Email     string
}

// Target describes one renderable artifact.
type Target struct {
	Template string // template name under templates/
	RelPath  string // output path relative to the install dir
}

// Targets returns the artifacts profile p needs, base overlay first.
func Targets(p profile.Profile) []Target {
	targets := make([]Target, 0, 4)
	for _, name := range p.OverlayNames() {
		targets = append(targets, Target{Template: name + ".tmpl", RelPath: name})
	}
	if p == profile.ProductionTLS {
		targets = append(targets, Target{
			Template: "nginx-tls.conf.tmpl",
			RelPath:  filepath.Join("nginx", "delirium-tls.conf"),
		})
	}
	return targets
}

// Render executes one embedded template with data.
func Render(name string, data Data) (string, error) {
	tmpl, err := loadTemplate(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Materialize renders targets under rootDir. Existing files are kept unless
// force is set. It returns the paths actually written.
func Materialize(rootDir string, targets []Target, data Data, force bool) ([]string, error) {
	var written []string
	for _, target := range targets {
		outPath := filepath.Join(rootDir, target.RelPath)
		if !force {
			if _, err := os.Stat(outPath); err == nil {
				continue
			}
		}

		content, err := Render(target.Template, data)
		if err != nil {
			return written, err
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return written, fmt.Errorf("create dir for %s: %w", outPath, err)
		}
		if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", outPath, err)
		}
		written = append(written, outPath)
	}
	return written, nil
}

func loadTemplate(name string) (*template.Template, error) {
	if value, ok := templateCache.Load(name); ok {
		cached, ok := value.(*template.Template)
		if !ok {
			return nil, fmt.Errorf("template cache type mismatch for %s", name)
		}
		return cached, nil
	}
	tmpl, err := template.New(path.Base(name)).Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	templateCache.Store(name, tmpl)
	return tmpl, nil
}
