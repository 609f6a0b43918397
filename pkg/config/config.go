// Package config loads the project settings that feed description text:
// development data, coordinate output, the non-buildable strip and rule
// files. Values come from a YAML file, then an optional .env file and
// MEMORIAL_* environment variables, then defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/memorial/pkg/crs"
	"github.com/coolbeans/memorial/pkg/describe"
	"github.com/coolbeans/memorial/pkg/locale"
)

// DefaultFile is the project file looked up when no path is given.
const DefaultFile = "memorial.yaml"

// Development types.
const (
	TypeCondominium        = "Condomínio Fechado de Lotes Residenciais"
	TypeControlledAccess   = "Loteamento de Acesso Controlado"
	DefaultDevelopmentType = TypeControlledAccess
)

// ErrInvalidFormat is returned for an unknown coordinate output format.
var ErrInvalidFormat = errors.New("invalid coordinate format")

// Project holds the settings of one development.
type Project struct {
	Name            string `yaml:"name"`
	DevelopmentType string `yaml:"development_type"`
	Condominium     bool   `yaml:"condominium"`

	Address       string `yaml:"address"`
	Neighborhood  string `yaml:"neighborhood"`
	City          string `yaml:"city"`
	Registrations string `yaml:"registrations"`

	// Area and Perimeter describe the whole tract in the opening paragraph.
	Area      float64 `yaml:"area"`
	Perimeter float64 `yaml:"perimeter"`
	// CommonArea is the condominium area shared by every lot.
	CommonArea float64 `yaml:"common_area"`
	// PrivateArea is the sum of lot areas. Zero means it is computed from
	// the lot reports.
	PrivateArea float64 `yaml:"private_area"`

	Coordinates  Coordinates  `yaml:"coordinates"`
	NonBuildable NonBuildable `yaml:"non_buildable"`
	Rules        Rules        `yaml:"rules"`
	Log          Log          `yaml:"log"`
}

// Coordinates selects how vertices are printed.
type Coordinates struct {
	// Format is utm, dec or dms.
	Format string `yaml:"format"`
	// Zone forces a UTM zone such as "22S".
	Zone string `yaml:"zone"`
	// Region is a state code used to pick the zone when Zone is empty.
	Region string `yaml:"region"`
}

// NonBuildable configures the non-buildable strip clause.
type NonBuildable struct {
	Enabled bool     `yaml:"enabled"`
	Width   *float64 `yaml:"width"`
}

// Rules points at classification rule files.
type Rules struct {
	Dir string `yaml:"dir"`
	Set string `yaml:"set"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `yaml:"level"`
}

// Default returns a project with every default applied.
func Default() Project {
	var p Project
	p.applyDefaults()
	return p
}

// Load reads a project file. An empty path tries DefaultFile and accepts its
// absence. A .env file next to the project file is loaded into the process
// environment before MEMORIAL_* overrides apply; variables already set win.
func Load(path string) (Project, error) {
	var p Project

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Project{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return Project{}, fmt.Errorf("reading %s: %w", path, err)
	}

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Project{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	if err := p.applyEnv(); err != nil {
		return Project{}, err
	}
	p.applyDefaults()

	if err := p.Validate(); err != nil {
		return Project{}, err
	}
	return p, nil
}

// Parse decodes project YAML without touching the environment.
func Parse(data []byte) (Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("parsing project: %w", err)
	}
	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return Project{}, err
	}
	return p, nil
}

func (p *Project) applyEnv() error {
	envOverride(&p.Name, "MEMORIAL_NAME")
	envOverride(&p.DevelopmentType, "MEMORIAL_DEVELOPMENT_TYPE")
	envOverrideBool(&p.Condominium, "MEMORIAL_CONDOMINIUM")
	envOverride(&p.Address, "MEMORIAL_ADDRESS")
	envOverride(&p.Neighborhood, "MEMORIAL_NEIGHBORHOOD")
	envOverride(&p.City, "MEMORIAL_CITY")
	envOverride(&p.Registrations, "MEMORIAL_REGISTRATIONS")
	envOverride(&p.Coordinates.Format, "MEMORIAL_COORDS")
	envOverride(&p.Coordinates.Zone, "MEMORIAL_ZONE")
	envOverride(&p.Coordinates.Region, "MEMORIAL_REGION")
	envOverride(&p.Rules.Dir, "MEMORIAL_RULES_DIR")
	envOverride(&p.Rules.Set, "MEMORIAL_RULES_SET")
	envOverride(&p.Log.Level, "MEMORIAL_LOG_LEVEL")
	envOverrideBool(&p.NonBuildable.Enabled, "MEMORIAL_ANE")

	for _, f := range []struct {
		field *float64
		key   string
	}{
		{&p.Area, "MEMORIAL_AREA"},
		{&p.Perimeter, "MEMORIAL_PERIMETER"},
		{&p.CommonArea, "MEMORIAL_COMMON_AREA"},
		{&p.PrivateArea, "MEMORIAL_PRIVATE_AREA"},
	} {
		if err := envOverrideFloat(f.field, f.key); err != nil {
			return err
		}
	}

	if val := os.Getenv("MEMORIAL_ANE_WIDTH"); val != "" {
		w, err := locale.ParseNumber(val)
		if err != nil {
			return fmt.Errorf("invalid MEMORIAL_ANE_WIDTH %q: %w", val, err)
		}
		p.NonBuildable.Width = &w
	}
	return nil
}

func (p *Project) applyDefaults() {
	if p.DevelopmentType == "" {
		if p.Condominium {
			p.DevelopmentType = TypeCondominium
		} else {
			p.DevelopmentType = DefaultDevelopmentType
		}
	}
	if p.Coordinates.Format == "" {
		p.Coordinates.Format = crs.Projected.String()
	}
	if p.Rules.Set == "" {
		p.Rules.Set = "default"
	}
	if p.Log.Level == "" {
		p.Log.Level = "info"
	}
}

// Validate checks values that cannot degrade to placeholders.
func (p Project) Validate() error {
	if _, ok := crs.ParseFormat(p.Coordinates.Format); !ok {
		return fmt.Errorf("%w: %q (want utm, dec or dms)", ErrInvalidFormat, p.Coordinates.Format)
	}
	if p.Coordinates.Zone != "" {
		if _, ok := crs.ParseZone(p.Coordinates.Zone); !ok {
			return fmt.Errorf("invalid zone %q (want e.g. 22S)", p.Coordinates.Zone)
		}
	}
	if w := p.NonBuildable.Width; w != nil && *w < 0 {
		return fmt.Errorf("invalid non_buildable.width %v: must be >= 0", *w)
	}
	if p.Area < 0 || p.Perimeter < 0 || p.CommonArea < 0 || p.PrivateArea < 0 {
		return fmt.Errorf("areas and perimeter must be >= 0")
	}
	return nil
}

// Format returns the coordinate output format, Projected when unset.
func (p Project) Format() crs.Format {
	f, ok := crs.ParseFormat(p.Coordinates.Format)
	if !ok {
		return crs.Projected
	}
	return f
}

// Zone resolves the UTM zone: an explicit zone first, then the region code,
// then the UF suffix of the city, then the default zone.
func (p Project) Zone() crs.Zone {
	if z, ok := crs.ParseZone(p.Coordinates.Zone); ok {
		return z
	}
	if strings.TrimSpace(p.Coordinates.Region) != "" {
		return crs.RegionZone(p.Coordinates.Region)
	}
	return crs.ZoneFromCity(p.City)
}

// Context builds the description context for the project. Addresses are
// formatted the way they appear in running text.
func (p Project) Context() describe.Context {
	ctx := describe.Context{
		Format:           p.Format(),
		Zone:             p.Zone(),
		DevelopmentType:  p.DevelopmentType,
		Address:          locale.TitleKeepPreps(p.Address),
		Neighborhood:     locale.FormatNeighborhood(p.Neighborhood),
		City:             locale.FormatCityUF(p.City),
		Condominium:      p.Condominium,
		TotalCommonArea:  p.CommonArea,
		TotalPrivateArea: p.PrivateArea,
	}
	if p.NonBuildable.Enabled && p.NonBuildable.Width != nil {
		w := *p.NonBuildable.Width
		ctx.StripWidth = &w
	}
	return ctx
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = strings.EqualFold(val, "true") || val == "1"
	}
}

func envOverrideFloat(field *float64, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := locale.ParseNumber(val)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}
