// Where: deliriumctl/internal/composefile/composefile.go
// What: Merged compose model loading via compose-go.
// Why: Port conflict checks and status need the stack's real published ports,
//      which only fall out of a proper overlay merge with interpolation.
package composefile

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// ServiceSummary is the slice of a merged service this tool cares about.
type ServiceSummary struct {
	Name           string
	Image          string
	PublishedPorts []int
}

// Model is the merged view of the stack's compose files.
type Model struct {
	Services []ServiceSummary
}

// Load merges the ordered compose files into one model. env feeds variable
// interpolation; later files override earlier ones.
func Load(ctx context.Context, project string, files []string, env map[string]string) (*Model, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no compose files given")
	}

	configFiles := make([]types.ConfigFile, 0, len(files))
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read compose file %s: %w", file, err)
		}
		var dict map[string]any
		if err := yaml.Unmarshal(raw, &dict); err != nil {
			return nil, fmt.Errorf("parse compose file %s: %w", file, err)
		}
		configFiles = append(configFiles, types.ConfigFile{
			Filename: file,
			Content:  raw,
			Config:   dict,
		})
	}

	proj, err := loader.LoadWithContext(ctx, types.ConfigDetails{
		ConfigFiles: configFiles,
		Environment: types.Mapping(env),
	}, func(opts *loader.Options) {
		opts.SetProjectName(project, false)
		opts.SkipValidation = false
		opts.SkipInterpolation = false
		opts.SkipNormalization = true
		opts.SkipExtends = true
	})
	if err != nil {
		return nil, fmt.Errorf("merge compose files: %w", err)
	}

	model := &Model{}
	for _, svc := range proj.Services {
		summary := ServiceSummary{Name: svc.Name, Image: svc.Image}
		for _, p := range svc.Ports {
			if p.Published == "" {
				continue
			}
			published, err := strconv.ParseUint(p.Published, 10, 32)
			if err != nil {
				// Published ranges and host-interface forms are not used by
				// the Delirium overlays; skip rather than guess.
				continue
			}
			summary.PublishedPorts = append(summary.PublishedPorts, int(published))
		}
		sort.Ints(summary.PublishedPorts)
		model.Services = append(model.Services, summary)
	}
	sort.Slice(model.Services, func(i, j int) bool {
		return model.Services[i].Name < model.Services[j].Name
	})
	return model, nil
}

// PublishedPorts returns the sorted, de-duplicated host ports the merged
// stack publishes.
func (m *Model) PublishedPorts() []int {
	seen := map[int]bool{}
	var ports []int
	for _, svc := range m.Services {
		for _, port := range svc.PublishedPorts {
			if !seen[port] {
				seen[port] = true
				ports = append(ports, port)
			}
		}
	}
	sort.Ints(ports)
	return ports
}

// ServiceNames returns the merged service names in sorted order.
func (m *Model) ServiceNames() []string {
	names := make([]string, 0, len(m.Services))
	for _, svc := range m.Services {
		names = append(names, svc.Name)
	}
	return names
}
