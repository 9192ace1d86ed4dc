package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/poki/querystring-filter/filter"
)

// DefaultEnvPrefix is the prefix of environment variables that override
// profile options, e.g. QSFILTER_USERS__SEARCHBY=name,email.
const DefaultEnvPrefix = "QSFILTER_"

// ErrUnknownProfile is returned when a profile name isn't configured.
var ErrUnknownProfile = errors.New("unknown profile")

// listOptions hold lists that may be given as a comma separated string.
var listOptions = map[string]bool{"filterBy": true, "orderBy": true, "searchBy": true}

// optionNames maps lower case option names, as they come from the
// environment, to their canonical spelling.
var optionNames = map[string]string{
	"filter":        "filter",
	"filterby":      "filterBy",
	"filterbyalias": "filterByAlias",
	"order":         "order",
	"orderby":       "orderBy",
	"orderbyalias":  "orderByAlias",
	"search":        "search",
	"searchby":      "searchBy",
}

type loader struct {
	envPrefix string
	logger    zerolog.Logger
}

type Option func(*loader)

// WithEnvPrefix changes the prefix of environment overrides. An empty prefix
// disables them.
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) {
		l.envPrefix = prefix
	}
}

// WithLogger sets the logger passed on to every translator built from the
// profiles.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *loader) {
		l.logger = logger
	}
}

// Profiles is a set of named translator configurations:
//
//	profiles:
//	  users:
//	    filterBy: [role, status]
//	    filterByAlias: {username: name}
//	    searchBy: [name, email]
//	  users_order:
//	    orderBy: [created_at, name]
//	    order: {created_at: desc}
type Profiles struct {
	options map[string][]filter.Option
	logger  zerolog.Logger
}

// Load reads profiles from a YAML (.yaml, .yml) or JSON (.json) file, then
// applies environment overrides.
func Load(path string, options ...Option) (*Profiles, error) {
	parser, err := parserFor(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, err
	}
	return load(file.Provider(path), parser, options)
}

// Parse reads profiles from data in the given format ("yaml" or "json"), then
// applies environment overrides.
func Parse(data []byte, format string, options ...Option) (*Profiles, error) {
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}
	return load(rawbytes.Provider(data), parser, options)
}

func parserFor(format string) (koanf.Parser, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.Parser(), nil
	case "json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}

func load(provider koanf.Provider, parser koanf.Parser, options []Option) (*Profiles, error) {
	l := &loader{envPrefix: DefaultEnvPrefix, logger: zerolog.Nop()}
	for _, option := range options {
		option(l)
	}

	k := koanf.New(".")
	if err := k.Load(provider, parser); err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	if l.envPrefix != "" {
		if err := k.Load(env.Provider(l.envPrefix, ".", l.envKey), nil); err != nil {
			return nil, fmt.Errorf("failed to load environment variables: %w", err)
		}
	}

	raw, ok := k.Get("profiles").(map[string]any)
	if !ok {
		return nil, filter.InvalidArgumentError{Message: "profiles must be an object"}
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	p := &Profiles{options: make(map[string][]filter.Option, len(raw)), logger: l.logger}
	for _, name := range names {
		profile := raw[name]
		if m, ok := profile.(map[string]any); ok {
			splitLists(m)
		}
		opts, err := filter.DecodeOptions(profile)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		if err := validateProfile(name, profile); err != nil {
			return nil, err
		}
		// Conflicts are reported when loading rather than on first use.
		if _, err := filter.NewTranslator(opts...); err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		p.options[name] = opts
		l.logger.Debug().Str("profile", name).Int("options", len(opts)).Msg("loaded profile")
	}
	return p, nil
}

// envKey turns QSFILTER_USERS__FILTERBY into profiles.users.filterBy.
func (l *loader) envKey(s string) string {
	path := strings.Split(strings.ToLower(strings.TrimPrefix(s, l.envPrefix)), "__")
	if len(path) < 2 || path[0] == "" {
		return ""
	}
	last := len(path) - 1
	if len(path) == 2 {
		name, ok := optionNames[path[last]]
		if !ok {
			return ""
		}
		path[last] = name
	} else {
		// A key inside filter, order or one of the alias tables.
		name, ok := optionNames[path[1]]
		if !ok {
			return ""
		}
		path[1] = name
	}
	return "profiles." + strings.Join(path, ".")
}

func splitLists(m map[string]any) {
	for key, value := range m {
		s, ok := value.(string)
		if !ok || !listOptions[key] {
			continue
		}
		var list []any
		for _, e := range strings.Split(s, ",") {
			if e = strings.TrimSpace(e); e != "" {
				list = append(list, e)
			}
		}
		m[key] = list
	}
}

// Names returns the configured profile names, sorted.
func (p *Profiles) Names() []string {
	names := make([]string, 0, len(p.options))
	for name := range p.options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Translator builds a translator for the named profile. Extra options are
// applied after the profile's own.
func (p *Profiles) Translator(name string, extra ...filter.Option) (*filter.Translator, error) {
	opts, ok := p.options[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	all := make([]filter.Option, 0, len(opts)+len(extra)+1)
	all = append(all, filter.WithLogger(p.logger.With().Str("profile", name).Logger()))
	all = append(all, opts...)
	all = append(all, extra...)
	return filter.NewTranslator(all...)
}
