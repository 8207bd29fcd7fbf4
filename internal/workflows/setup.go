// Where: deliriumctl/internal/workflows/setup.go
// What: End-to-end deployment setup workflow.
// Why: Bring a host from nothing installed to a reachable site through a
//      restartable sequence of idempotent steps.
package workflows

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/delirium-paste/deliriumctl/internal/compose"
	"github.com/delirium-paste/deliriumctl/internal/composefile"
	"github.com/delirium-paste/deliriumctl/internal/constants"
	"github.com/delirium-paste/deliriumctl/internal/envfile"
	"github.com/delirium-paste/deliriumctl/internal/envutil"
	"github.com/delirium-paste/deliriumctl/internal/frontend"
	"github.com/delirium-paste/deliriumctl/internal/health"
	"github.com/delirium-paste/deliriumctl/internal/interaction"
	"github.com/delirium-paste/deliriumctl/internal/meta"
	"github.com/delirium-paste/deliriumctl/internal/portcheck"
	"github.com/delirium-paste/deliriumctl/internal/prereq"
	"github.com/delirium-paste/deliriumctl/internal/profile"
	"github.com/delirium-paste/deliriumctl/internal/repos"
	"github.com/delirium-paste/deliriumctl/internal/scaffold"
	"github.com/delirium-paste/deliriumctl/internal/schema"
	"github.com/delirium-paste/deliriumctl/internal/secret"
	"github.com/delirium-paste/deliriumctl/internal/ui"
)

// SetupRequest captures the inputs of one setup run.
type SetupRequest struct {
	InstallDir string
	Profile    profile.Profile // valid value skips the profile menu
	Domain     string
	Email      string
	Owner      string

	SkipFrontend bool
	Headless     bool
	NoBrowser    bool
}

// SetupWorkflow orchestrates the deployment steps. The function fields are
// seams; nil fields resolve to the real implementations, tests inject fakes.
type SetupWorkflow struct {
	Runner   compose.CommandRunner
	Docker   compose.DockerClient
	Prompter interaction.Prompter
	UI       *ui.Console
	Waiter   *health.Waiter

	CheckPrereqs   func(ctx context.Context) prereq.Report
	EnsureRepo     func(ctx context.Context, repo repos.Repo, parentDir string) error
	BuildFrontend  func(ctx context.Context, clientDir string) error
	RenderOverlays func(rootDir string, prof profile.Profile, data scaffold.Data) error
	RequiredPorts  func(ctx context.Context, rc *RunContext) []int
	GeneratePepper func() secret.Pepper
	SaveProfile    func(prof profile.Profile, installDir, owner string) error
}

// Run executes the setup state machine. On a fatal error after launch it
// tears down the containers this run started; earlier failures never owe a
// teardown.
func (w *SetupWorkflow) Run(ctx context.Context, req SetupRequest) (*RunContext, error) {
	rc := &RunContext{InstallDir: req.InstallDir, Step: StepInit}
	err := w.run(ctx, req, rc)
	if err != nil && rc.Started {
		w.console().Warn("Tearing down containers started by this run")
		if downErr := compose.Down(ctx, w.Runner, rc.Stack, false); downErr != nil {
			w.console().Warn(fmt.Sprintf("Teardown failed: %v (run 'deliriumctl down' manually)", downErr))
		}
	}
	return rc, err
}

func (w *SetupWorkflow) run(ctx context.Context, req SetupRequest, rc *RunContext) error {
	if err := w.checkPrereqs(ctx, req, rc); err != nil {
		return err
	}
	if err := w.configureEnvironment(req, rc); err != nil {
		return err
	}
	if err := w.resolveRepos(ctx, req, rc); err != nil {
		return err
	}
	if err := w.buildFrontend(ctx, req, rc); err != nil {
		return err
	}
	if err := w.selectProfile(ctx, req, rc); err != nil {
		return err
	}
	if err := w.clearPorts(ctx, req, rc); err != nil {
		return err
	}
	if err := w.launch(ctx, rc); err != nil {
		return err
	}
	w.waitForHealth(ctx, rc)
	w.finish(req, rc)
	rc.Step = StepDone
	return nil
}

func (w *SetupWorkflow) checkPrereqs(ctx context.Context, req SetupRequest, rc *RunContext) error {
	console := w.console()
	console.BlockStart("🔍", "Checking prerequisites")

	check := w.CheckPrereqs
	if check == nil {
		check = func(ctx context.Context) prereq.Report {
			return prereq.Run(ctx, w.Docker, w.Runner, prereq.DefaultTools())
		}
	}

	report := check(ctx)
	for _, item := range report.Checks {
		if item.Err == nil {
			console.Item(item.Tool.Name, item.Path)
		} else if !item.Tool.Required {
			console.Item(item.Tool.Name, "not found (optional)")
		}
	}
	console.BlockEnd()

	if err := report.Fatal(); err != nil {
		return fatalf(StepPrereqChecked, "install the missing tool and rerun setup", "%w", err)
	}
	if !report.FrontendAvailable() && !req.SkipFrontend {
		rc.Degrade("node/npm not found; the frontend bundle will not be rebuilt")
	}
	rc.Step = StepPrereqChecked
	return nil
}

func (w *SetupWorkflow) configureEnvironment(req SetupRequest, rc *RunContext) error {
	console := w.console()
	console.BlockStart("⚙️", "Configuring environment")

	path := filepath.Join(rc.InstallDir, envfile.DefaultName)
	existed := fileExists(path)
	record, err := envfile.Load(path)
	if err != nil {
		return fatalf(StepConfigReady, "check permissions on "+path, "%w", err)
	}
	rc.Record = record

	dirty := false
	rotate := !secret.Valid(record.Get(constants.EnvSecretPepper))
	if !rotate && !req.Headless && w.Prompter != nil {
		confirmed, err := w.Prompter.Confirm("Regenerate the secret pepper? Previously issued deletion tokens stop working.")
		if err != nil {
			return err
		}
		rotate = confirmed
	}
	if rotate {
		generate := w.GeneratePepper
		if generate == nil {
			generate = secret.Generate
		}
		pepper := generate()
		record.Set(constants.EnvSecretPepper, pepper.Value)
		dirty = true
		if pepper.Source == secret.SourceFallback {
			warning := fmt.Sprintf("Secret pepper generated from %s; rotate it once the entropy pool recovers", pepper.Source)
			console.Warn(warning)
			rc.Degrade(warning)
		} else {
			console.Success("Secret pepper generated (" + secret.Mask(pepper.Value) + ")")
		}
	} else {
		console.Item("Secret pepper", secret.Mask(record.Get(constants.EnvSecretPepper))+" (kept)")
	}

	// Defaults are only seeded into fresh records. An existing file the
	// operator chose to keep must come out byte-identical.
	if !existed {
		if !record.Has(constants.EnvWebPort) {
			record.Set(constants.EnvWebPort, strconv.Itoa(constants.DefaultWebPort))
			dirty = true
		}
		if req.Owner != "" && record.Get(constants.EnvRepoOwner) != req.Owner {
			record.Set(constants.EnvRepoOwner, req.Owner)
			dirty = true
		}
	}

	webPort := constants.DefaultWebPort
	if record.Has(constants.EnvWebPort) {
		parsed, err := strconv.Atoi(record.Get(constants.EnvWebPort))
		if err != nil || parsed < 1 || parsed > 65535 {
			return fatalf(StepConfigReady, "set "+constants.EnvWebPort+" to a port number in "+path,
				"invalid %s value %q", constants.EnvWebPort, record.Get(constants.EnvWebPort))
		}
		webPort = parsed
	}
	rc.WebPort = webPort

	if dirty {
		if err := record.Save(); err != nil {
			return fatalf(StepConfigReady, "check permissions on "+path, "%w", err)
		}
	}
	console.Item("Record", path)
	console.BlockEnd()
	rc.Step = StepConfigReady
	return nil
}

func (w *SetupWorkflow) resolveRepos(ctx context.Context, req SetupRequest, rc *RunContext) error {
	console := w.console()
	console.BlockStart("📦", "Resolving peer repositories")

	owner := envutil.FirstNonEmpty(req.Owner, envutil.GetHostEnv("REPO_OWNER"), rc.Record.Get(constants.EnvRepoOwner))
	ensure := w.EnsureRepo
	if ensure == nil {
		ensure = func(ctx context.Context, repo repos.Repo, parentDir string) error {
			return repo.Ensure(ctx, w.Runner, parentDir)
		}
	}

	for _, repo := range repos.Peers(owner) {
		if err := ensure(ctx, repo, rc.InstallDir); err != nil {
			// Pre-built images can still serve; a missing source tree only
			// disables local builds.
			warning := fmt.Sprintf("%s unavailable: %v", repo.Name, err)
			console.Warn(warning)
			rc.Degrade(warning)
			continue
		}
		console.Item(repo.Name, repo.Dir(rc.InstallDir))
	}
	console.BlockEnd()
	rc.Step = StepReposResolved
	return nil
}

func (w *SetupWorkflow) buildFrontend(ctx context.Context, req SetupRequest, rc *RunContext) error {
	rc.Step = StepFrontendBuilt
	if req.SkipFrontend {
		return nil
	}
	clientDir := filepath.Join(rc.InstallDir, meta.ClientRepo)
	if !fileExists(filepath.Join(clientDir, "package.json")) {
		return nil
	}

	console := w.console()
	console.BlockStart("🛠️", "Building frontend bundle")
	build := w.BuildFrontend
	if build == nil {
		build = func(ctx context.Context, dir string) error {
			return frontend.Build(ctx, w.Runner, dir)
		}
	}
	if err := build(ctx, clientDir); err != nil {
		warning := fmt.Sprintf("frontend build failed: %v; the site will serve the last compiled bundle", err)
		console.Warn(warning)
		rc.Degrade(warning)
	} else if !frontend.ArtifactPresent(clientDir) {
		warning := "frontend build finished but produced no dist/index.html"
		console.Warn(warning)
		rc.Degrade(warning)
	} else {
		console.Success("Frontend bundle compiled")
	}
	console.BlockEnd()
	return nil
}

func (w *SetupWorkflow) selectProfile(ctx context.Context, req SetupRequest, rc *RunContext) error {
	console := w.console()

	prof := req.Profile
	if !prof.Valid() {
		if req.Headless || w.Prompter == nil {
			prof = profile.Parse(envutil.GetHostEnv("PROFILE"))
		} else {
			options := make([]interaction.SelectOption, 0, len(profile.All()))
			for _, candidate := range profile.All() {
				options = append(options, interaction.SelectOption{Label: candidate.Label(), Value: string(candidate)})
			}
			choice, err := w.Prompter.SelectValue("Deployment profile", options)
			if err != nil {
				return err
			}
			prof = profile.Parse(choice)
		}
	}
	rc.Profile = prof
	console.BlockStart("🚀", "Deployment profile")
	console.Item("Profile", prof.Label())

	if prof.NeedsDomain() {
		if err := w.ensureDomain(req, rc); err != nil {
			return err
		}
		console.Item("Domain", rc.Record.Get(constants.EnvDomain))
	}
	console.BlockEnd()

	data := scaffold.Data{
		ServerDir: meta.ServerRepo,
		ClientDir: meta.ClientRepo,
		Domain:    rc.Record.Get(constants.EnvDomain),
		Email:     rc.Record.Get(constants.EnvLetsEncryptEmail),
	}
	render := w.RenderOverlays
	if render == nil {
		render = renderAndValidateOverlays
	}
	if err := render(rc.InstallDir, prof, data); err != nil {
		return fatalf(StepConfigReady, "fix or delete the offending compose file and rerun setup", "%w", err)
	}

	rc.Stack = compose.Stack{
		RootDir: rc.InstallDir,
		Project: meta.ComposeProject,
		Files:   prof.ComposeFiles(rc.InstallDir),
		EnvFile: envfile.DefaultName,
	}

	if w.SaveProfile != nil {
		owner := rc.Record.Get(constants.EnvRepoOwner)
		if err := w.SaveProfile(prof, rc.InstallDir, owner); err != nil {
			w.console().Warn(fmt.Sprintf("could not remember the profile: %v", err))
		}
	}
	rc.Step = StepProfileSelected
	return nil
}

func (w *SetupWorkflow) ensureDomain(req SetupRequest, rc *RunContext) error {
	domain := envutil.FirstNonEmpty(req.Domain, rc.Record.Get(constants.EnvDomain))
	email := envutil.FirstNonEmpty(req.Email, rc.Record.Get(constants.EnvLetsEncryptEmail))

	if domain == "" && !req.Headless && w.Prompter != nil {
		entered, err := w.Prompter.Input("Public domain (e.g. paste.example.org)", nil)
		if err != nil {
			return err
		}
		domain = entered
	}
	if email == "" && !req.Headless && w.Prompter != nil {
		entered, err := w.Prompter.Input("Contact email for Let's Encrypt", nil)
		if err != nil {
			return err
		}
		email = entered
	}
	if domain == "" || email == "" {
		return fatalf(StepConfigReady,
			"provide a domain and contact email (positional args, prompts, or "+constants.EnvDomain+"/"+constants.EnvLetsEncryptEmail+")",
			"production-tls requires a domain and a contact email")
	}

	dirty := false
	if rc.Record.Get(constants.EnvDomain) != domain {
		rc.Record.Set(constants.EnvDomain, domain)
		dirty = true
	}
	if rc.Record.Get(constants.EnvLetsEncryptEmail) != email {
		rc.Record.Set(constants.EnvLetsEncryptEmail, email)
		dirty = true
	}
	if dirty {
		if err := rc.Record.Save(); err != nil {
			return fatalf(StepConfigReady, "check permissions on "+rc.Record.Path(), "%w", err)
		}
	}
	return nil
}

func (w *SetupWorkflow) clearPorts(ctx context.Context, req SetupRequest, rc *RunContext) error {
	console := w.console()

	required := w.RequiredPorts
	if required == nil {
		required = defaultRequiredPorts
	}
	ports := required(ctx, rc)

	conflicts, err := portcheck.Inspect(ctx, w.Docker, rc.Stack.Project, ports)
	if err != nil {
		return fatalf(StepPortsClear, "check that the docker daemon is reachable", "%w", err)
	}

	var owned []portcheck.Conflict
	var foreign []portcheck.Conflict
	for _, conflict := range conflicts {
		if conflict.Owned() {
			owned = append(owned, conflict)
		} else {
			foreign = append(foreign, conflict)
		}
	}

	if len(owned) > 0 {
		stop := req.Headless || w.Prompter == nil
		if !stop {
			for _, conflict := range owned {
				console.Warn(portcheck.Describe(conflict))
			}
			confirmed, err := w.Prompter.Confirm("Stop these leftover containers?")
			if err != nil {
				return err
			}
			stop = confirmed
		}
		if stop {
			if _, err := portcheck.StopOwned(ctx, w.Docker, owned); err != nil {
				return fatalf(StepPortsClear, "stop the containers manually with 'docker stop'", "%w", err)
			}
			// One re-probe; the port should free up as soon as the stop lands.
			recheck, err := portcheck.Inspect(ctx, w.Docker, rc.Stack.Project, conflictPorts(owned))
			if err == nil {
				foreign = append(foreign, recheck...)
			}
		} else {
			foreign = append(foreign, owned...)
		}
	}

	if len(foreign) > 0 {
		for _, conflict := range foreign {
			console.Failure(portcheck.Describe(conflict))
		}
		return fatalf(StepPortsClear, "free the listed ports, then rerun setup",
			"%d required port(s) are not free", len(foreign))
	}
	rc.Step = StepPortsClear
	return nil
}

func (w *SetupWorkflow) launch(ctx context.Context, rc *RunContext) error {
	console := w.console()
	console.BlockStart("🐳", "Launching stack")

	if err := compose.Pull(ctx, w.Runner, rc.Stack); err != nil {
		warning := fmt.Sprintf("image pull failed (%v); building locally instead", err)
		console.Warn(warning)
		rc.Degrade(warning)
	}

	if err := compose.Up(ctx, w.Runner, rc.Stack, compose.UpOptions{Build: true, Detach: true}); err != nil {
		// A failed up can leave part of the stack running; tear that down
		// before reporting so the host is not left half-started.
		_ = compose.Down(ctx, w.Runner, rc.Stack, false)
		return fatalf(StepLaunched, "inspect the build output above, then rerun setup", "%w", err)
	}
	rc.Started = true
	console.BlockEnd()
	rc.Step = StepLaunched
	return nil
}

func (w *SetupWorkflow) waitForHealth(ctx context.Context, rc *RunContext) {
	console := w.console()
	console.BlockStart("🩺", "Waiting for the site to answer")

	waiter := w.Waiter
	if waiter == nil {
		waiter = health.NewWaiter()
	}

	port := rc.WebPort
	if rc.Profile != profile.Development {
		port = 80
	}
	result := waiter.WaitPort(ctx, port)
	if result.Healthy {
		console.Success(fmt.Sprintf("Healthy after %d attempt(s): %s", result.Attempts, result.URL))
	} else {
		warning := fmt.Sprintf("no health response after %d attempts; services may still be starting (check 'deliriumctl logs')", result.Attempts)
		console.Warn(warning)
		rc.Degrade(warning)
	}

	if rc.Profile == profile.ProductionTLS {
		domain := rc.Record.Get(constants.EnvDomain)
		if err := health.Probe(ctx, waiter.Client, "https://"+domain+"/"); err != nil {
			warning := fmt.Sprintf("https://%s not answering yet (%v); certificate issuance can take a few minutes", domain, err)
			console.Warn(warning)
			rc.Degrade(warning)
		}
	}
	console.BlockEnd()
	rc.Step = StepHealthChecked
}

func (w *SetupWorkflow) finish(req SetupRequest, rc *RunContext) {
	console := w.console()
	console.BlockStart("🎉", "Deployment complete")
	console.Item("Profile", rc.Profile.Label())
	console.Item("Install dir", rc.InstallDir)
	url := fmt.Sprintf("http://localhost:%d", rc.WebPort)
	if rc.Profile == profile.ProductionTLS {
		url = "https://" + rc.Record.Get(constants.EnvDomain)
	} else if rc.Profile == profile.ProductionHTTP {
		url = fmt.Sprintf("http://%s", envutil.FirstNonEmpty(rc.Record.Get(constants.EnvDomain), "localhost"))
	}
	console.Item("URL", url)
	for _, degradation := range rc.Degradations {
		console.Warn(degradation)
	}
	noBrowser := req.NoBrowser || req.Headless || envutil.BoolFromEnv(constants.EnvNoBrowser)
	if !noBrowser {
		console.ItemPlain("Open " + url + " in your browser to start pasting.")
	}
	console.BlockEnd()
}

func (w *SetupWorkflow) console() *ui.Console {
	if w.UI != nil {
		return w.UI
	}
	return ui.New(io.Discard)
}

// defaultRequiredPorts derives ports from the merged compose model, falling
// back to the profile table when the model cannot be loaded.
func defaultRequiredPorts(ctx context.Context, rc *RunContext) []int {
	env := map[string]string{}
	for _, key := range rc.Record.Keys() {
		env[key] = rc.Record.Get(key)
	}
	model, err := composefile.Load(ctx, rc.Stack.Project, rc.Stack.Files, env)
	if err != nil {
		model = nil
	}
	return portcheck.Required(model, rc.Profile, rc.WebPort)
}

func renderAndValidateOverlays(rootDir string, prof profile.Profile, data scaffold.Data) error {
	if _, err := scaffold.Materialize(rootDir, scaffold.Targets(prof), data, false); err != nil {
		return err
	}
	for _, file := range prof.ComposeFiles(rootDir) {
		if err := schema.ValidateComposeFile(file); err != nil {
			return err
		}
	}
	return nil
}

func conflictPorts(conflicts []portcheck.Conflict) []int {
	ports := make([]int, 0, len(conflicts))
	for _, conflict := range conflicts {
		ports = append(ports, conflict.Port)
	}
	return ports
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
