// Where: deliriumctl/internal/frontend/frontend.go
// What: Frontend bundle build via npm.
// Why: Shipping the client without a compiled bundle leaves the site with
//      dead interactive elements; this step exists to prevent exactly that.
package frontend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/delirium-paste/deliriumctl/internal/compose"
)

// artifact is the file whose presence marks a completed build.
const artifact = "dist/index.html"

// Build installs dependencies and compiles the client bundle in clientDir.
// npm ci keeps installs reproducible when a lockfile exists; otherwise a
// plain install is the only option.
func Build(ctx context.Context, runner compose.CommandRunner, clientDir string) error {
	if runner == nil {
		return fmt.Errorf("command runner is nil")
	}
	if _, err := os.Stat(filepath.Join(clientDir, "package.json")); err != nil {
		return fmt.Errorf("no package.json in %s: %w", clientDir, err)
	}

	installArgs := []string{"ci"}
	if _, err := os.Stat(filepath.Join(clientDir, "package-lock.json")); err != nil {
		installArgs = []string{"install"}
	}
	if err := runner.Run(ctx, clientDir, "npm", installArgs...); err != nil {
		return fmt.Errorf("npm %s: %w", installArgs[0], err)
	}

	if err := runner.Run(ctx, clientDir, "npm", "run", "build"); err != nil {
		return fmt.Errorf("npm run build: %w", err)
	}
	return nil
}

// ArtifactPresent reports whether a compiled bundle exists in clientDir.
func ArtifactPresent(clientDir string) bool {
	_, err := os.Stat(filepath.Join(clientDir, filepath.FromSlash(artifact)))
	return err == nil
}
