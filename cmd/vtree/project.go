package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/manifest"
	"github.com/vango-dev/vtree/pkg/module"
	"github.com/vango-dev/vtree/pkg/runtime"
	"github.com/vango-dev/vtree/pkg/server"
	"github.com/vango-dev/vtree/pkg/source"
	"github.com/vango-dev/vtree/pkg/telemetry"
)

// projectOptions are the persistent flags shared by every command.
type projectOptions struct {
	configPath   string
	manifestPath string
	logLevel     string
	noColor      bool
}

// project is a loaded configuration and manifest with a configured
// environment.
type project struct {
	cfg    *config.Config
	set    *manifest.Set
	env    *runtime.Environment
	logger *slog.Logger

	// Set when metrics are enabled.
	metrics  *telemetry.Metrics
	registry *prometheus.Registry
}

// load reads the configuration and manifest and configures an environment
// for the manifest's root module. Metrics are only collected when
// withMetrics is set and the configuration enables them.
func (o *projectOptions) load(stderr io.Writer, withMetrics bool) (*project, error) {
	logger, err := newLogger(stderr, o.logLevel)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	path := o.manifestPath
	if path == "" {
		path = cfg.ManifestPath()
	}
	m, err := manifest.LoadFile(path)
	if err != nil {
		return nil, err
	}
	set, err := m.Build()
	if err != nil {
		return nil, err
	}

	p := &project{cfg: cfg, set: set, logger: logger}
	opts := []runtime.Option{
		runtime.WithConfig(cfg),
		runtime.WithLogger(logger.With("component", "runtime")),
		runtime.WithLoader(newLoader(cfg)),
		runtime.WithTracer(telemetry.NewTracer("github.com/vango-dev/vtree")),
	}
	if withMetrics && cfg.Metrics.Enabled {
		p.registry = prometheus.NewRegistry()
		p.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		p.metrics = telemetry.NewMetrics(
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithRegistry(p.registry),
		)
		opts = append(opts, runtime.WithMetrics(p.metrics))
	}

	p.env = runtime.New(opts...)
	if err := p.env.Configure(set.Root); err != nil {
		return nil, err
	}
	logger.Debug("project loaded", "manifest", path, "components", len(set.Components), "root", set.Root.Name)
	return p, nil
}

// loadConfig reads --config, or the nearest vtree config above the working
// directory. Without one the defaults apply.
func (o *projectOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) && e.Code == "E131" {
			return config.New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// component looks up a manifest component.
func (p *project) component(name string) (*module.ComponentDef, error) {
	def, ok := p.set.Component(name)
	if !ok {
		return nil, &server.UnknownComponentError{Name: name}
	}
	return def, nil
}

// newLoader resolves templateUrl against the sources directory, then the
// configured S3 bucket.
func newLoader(cfg *config.Config) source.Loader {
	chain := source.Chain{source.NewDirLoader(cfg.SourcesPath())}
	if s3cfg := cfg.Sources.S3; s3cfg.Bucket != "" {
		client := source.NewS3Client(source.S3Config{
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			PathStyle: s3cfg.PathStyle,
		})
		chain = append(chain, source.NewS3Loader(client, s3cfg.Bucket, s3cfg.Prefix))
	}
	return chain
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// parseValues decodes a --state or --context flag. YAML flow syntax and
// JSON are both accepted.
func parseValues(flag, s string) (map[string]any, error) {
	if s == "" {
		return nil, nil
	}
	var out map[string]any
	if err := yaml.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	return out, nil
}
