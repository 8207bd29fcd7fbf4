// Where: deliriumctl/internal/workflows/env.go
// What: Environment record inspection and mutation operations.
// Why: The record holds a secret; showing, editing, and rotating it need
//      consistent masking and validation.
package workflows

import (
	"fmt"
	"strconv"

	"github.com/delirium-paste/deliriumctl/internal/constants"
	"github.com/delirium-paste/deliriumctl/internal/envfile"
	"github.com/delirium-paste/deliriumctl/internal/secret"
	"github.com/delirium-paste/deliriumctl/internal/ui"
)

// EnvWorkflow operates on one loaded env record.
type EnvWorkflow struct {
	UI *ui.Console

	// GeneratePepper is a seam; nil resolves to secret.Generate.
	GeneratePepper func() secret.Pepper
}

// Show prints every key in file order, masking the pepper.
func (w *EnvWorkflow) Show(record *envfile.Record) {
	if w.UI == nil {
		return
	}
	keys := record.Keys()
	if len(keys) == 0 {
		w.UI.Info("env record is empty")
		return
	}
	w.UI.BlockStart("🗂️", "Environment record")
	for _, key := range keys {
		value := record.Get(key)
		if key == constants.EnvSecretPepper {
			value = secret.Mask(value)
		}
		w.UI.Item(key, value)
	}
	w.UI.BlockEnd()
}

// Set validates and writes one key. Known keys get their format checked;
// unknown keys pass through so operators can feed extra variables to the
// compose stack.
func (w *EnvWorkflow) Set(record *envfile.Record, key, value string) error {
	switch key {
	case constants.EnvSecretPepper:
		if !secret.Valid(value) {
			return fmt.Errorf("%s must be %d hex characters (use rotate-pepper to generate one)",
				key, constants.PepperLength)
		}
	case constants.EnvWebPort:
		port, err := strconv.Atoi(value)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("%s must be a port number, got %q", key, value)
		}
	}
	record.Set(key, value)
	if err := record.Save(); err != nil {
		return err
	}
	if w.UI != nil {
		shown := value
		if key == constants.EnvSecretPepper {
			shown = secret.Mask(value)
		}
		w.UI.Success(key + " = " + shown)
	}
	return nil
}

// RotatePepper replaces the pepper with a fresh one. confirmed must already
// reflect the operator's explicit consent; rotation invalidates every
// previously issued deletion token.
func (w *EnvWorkflow) RotatePepper(record *envfile.Record, confirmed bool) (secret.Pepper, error) {
	if !confirmed {
		return secret.Pepper{}, fmt.Errorf("pepper rotation needs explicit confirmation")
	}
	generate := w.GeneratePepper
	if generate == nil {
		generate = secret.Generate
	}
	pepper := generate()
	record.Set(constants.EnvSecretPepper, pepper.Value)
	if err := record.Save(); err != nil {
		return pepper, err
	}
	if w.UI != nil {
		w.UI.Success("Secret pepper rotated (" + secret.Mask(pepper.Value) + ")")
		if pepper.Source == secret.SourceFallback {
			w.UI.Warn("pepper came from the " + pepper.Source.String() + " source; rotate again once crypto/rand works")
		}
		w.UI.Warn("previously issued deletion tokens no longer work")
	}
	return pepper, nil
}
