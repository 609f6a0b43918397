package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/memorial/pkg/bearing"
	"github.com/coolbeans/memorial/pkg/classify"
	"github.com/coolbeans/memorial/pkg/config"
	"github.com/coolbeans/memorial/pkg/crs"
	"github.com/coolbeans/memorial/pkg/geometry"
	"github.com/coolbeans/memorial/pkg/locale"
	"github.com/coolbeans/memorial/pkg/memorial"
	"github.com/coolbeans/memorial/pkg/report"
	"github.com/coolbeans/memorial/pkg/watch"
)

var version = "0.1.0"

var (
	logger     *zap.Logger
	logLevel   zap.AtomicLevel
	verbose    bool
	configPath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memorial",
		Short: "Survey report to legal description engine",
		Long: `Memorial turns survey reports exported by civil design software into
memorial descritivo text for land registry filings.

It reads parcel reports and civil reports and produces:
  - Lot and block descriptions for subdivisions and condominiums
  - Public area descriptions grouped by section
  - Unification and dismemberment descriptions
  - Vertex tables in UTM or geographic coordinates
  - Ideal fraction tables for condominiums`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
			if verbose {
				logLevel.SetLevel(zapcore.DebugLevel)
			}
			cfg.Level = logLevel
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Project file (default memorial.yaml)")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(verticesCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(describeCmd())
	rootCmd.AddCommand(fractionsCmd())
	rootCmd.AddCommand(zoneCmd())
	rootCmd.AddCommand(azimuthCmd())
	rootCmd.AddCommand(watchCmd())
	return rootCmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a project file with default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

			path := filepath.Join(dir, config.DefaultFile)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}

			data, err := yaml.Marshal(config.Default())
			if err != nil {
				return fmt.Errorf("failed to encode project: %w", err)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write project: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
			fmt.Fprintln(cmd.OutOrStdout(), "  1. Fill in name, address, city and registrations")
			fmt.Fprintln(cmd.OutOrStdout(), "  2. Export parcel reports into the project directory")
			fmt.Fprintf(cmd.OutOrStdout(), "  3. Run: memorial describe --dir %s --mode lots\n", dir)
			return nil
		},
	}
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse survey reports into items",
		Long: `Parse survey reports and print the items they contain.

The dialect is detected from the file name and content unless --dialect is
given. Civil reports named *CivilReport_lotes* are numbered from item names.

Examples:
  memorial parse QUADRA_A.txt
  memorial parse CivilReport_areas.html --format json
  memorial parse lots.htm --dialect numbered-html --format pretty`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, _ := cmd.Flags().GetString("dialect")
			format, _ := cmd.Flags().GetString("format")

			parser := report.NewParser()
			var results []memorial.ParsedFile
			inputs, err := memorial.ReadFiles(args)
			if err != nil {
				return err
			}

			for _, in := range inputs {
				d := report.Dialect("")
				if dialect != "" {
					if d, err = report.ParseDialect(dialect); err != nil {
						return err
					}
				} else if d, err = report.DetectDialect(in.Name, in.Data); err != nil {
					return fmt.Errorf("%s: %w", in.Name, err)
				}

				items, err := parser.Parse(in.Data, d)
				if err != nil {
					return fmt.Errorf("%s: %w", in.Name, err)
				}
				pf := memorial.ParsedFile{Name: in.Name, Dialect: d, Civil: report.IsCivilReport(in.Name), Items: items}
				if !pf.Civil {
					pf.Block = report.InferBlock(in.Name)
				}
				logger.Debug("parsed report", zap.String("file", in.Name), zap.Int("items", len(items)))
				results = append(results, pf)
			}

			switch format {
			case "json":
				data, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			case "pretty":
				for _, pf := range results {
					fmt.Fprintf(cmd.OutOrStdout(), "%# v\n", pretty.Formatter(pf))
				}
			default:
				for _, pf := range results {
					out, err := itemTable(pf).Format(memorial.FormatTable)
					if err != nil {
						return err
					}
					fmt.Fprint(cmd.OutOrStdout(), out)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("dialect", "d", "", "Report dialect: text, html, numbered-html")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, json, pretty")
	return cmd
}

func verticesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vertices FILE...",
		Short: "List the vertices of every item",
		Long: `Rebuild each item's vertices from its origin and segments and list them
with azimuths, distances and confronting names.

Examples:
  memorial vertices QUADRA_A.txt
  memorial vertices CivilReport_areas.html --coords dms --format csv
  memorial vertices QUADRA_A.txt --zone 23S`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords, _ := cmd.Flags().GetString("coords")
			zoneFlag, _ := cmd.Flags().GetString("zone")
			region, _ := cmd.Flags().GetString("region")
			format, _ := cmd.Flags().GetString("format")

			engine, project, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			if coords != "" {
				project.Coordinates.Format = coords
			}
			if zoneFlag != "" {
				project.Coordinates.Zone = zoneFlag
			}
			if region != "" {
				project.Coordinates.Region = region
			}
			if err := project.Validate(); err != nil {
				return err
			}

			inputs, err := memorial.ReadFiles(args)
			if err != nil {
				return err
			}
			files, err := engine.ParseFiles(cmd.Context(), inputs)
			if err != nil {
				return err
			}

			f, z := project.Format(), project.Zone()
			for _, pf := range files {
				for _, vt := range memorial.VertexTables(pf.Items, f, z) {
					out, err := memorial.NewVertexTable(vt, f).Format(memorial.OutputFormat(format))
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
				}
			}
			return nil
		},
	}

	cmd.Flags().String("coords", "", "Coordinate format: utm, dec, dms")
	cmd.Flags().String("zone", "", "UTM zone such as 22S")
	cmd.Flags().String("region", "", "State code used to pick the UTM zone")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, csv, json")
	return cmd
}

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify NAME...",
		Short: "Show the section each item name falls into",
		Long: `Classify item names with the built-in rules or a rule set loaded from
a directory of YAML rule files.

Examples:
  memorial classify "AREA VERDE 1" "RUA A" "QUADRA B"
  memorial classify --rules ./rules --set municipal "FAIXA NAO EDIFICANTE"
  memorial classify --list --rules ./rules`,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, _ := cmd.Flags().GetBool("list")
			format, _ := cmd.Flags().GetString("format")

			project, err := loadProject(cmd)
			if err != nil {
				return err
			}

			if list {
				if project.Rules.Dir == "" {
					return fmt.Errorf("--list needs a rules directory")
				}
				registry, err := classify.NewRegistryWithDirectory(project.Rules.Dir)
				if err != nil {
					return err
				}
				table := memorial.Table{Headers: []string{"Set", "Version", "Rules"}}
				for _, set := range registry.List() {
					table.Rows = append(table.Rows, []string{set.Name, set.Version, fmt.Sprint(len(set.Rules))})
				}
				out, err := table.Format(memorial.OutputFormat(format))
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("at least one name is required")
			}
			classifier, err := loadClassifier(project)
			if err != nil {
				return err
			}

			table := memorial.Table{Headers: []string{"Name", "Category", "Section"}}
			for _, name := range args {
				cat, title := classifier.Classify(name)
				table.Rows = append(table.Rows, []string{classify.Normalize(name), string(cat), title})
			}
			out, err := table.Format(memorial.OutputFormat(format))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	addRuleFlags(cmd)
	cmd.Flags().Bool("list", false, "List the rule sets in the rules directory")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, csv, json")
	return cmd
}

func describeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe [FILE...]",
		Short: "Generate a memorial descritivo",
		Long: `Generate a memorial descritivo from survey reports.

Modes:
  lots             Lot and block descriptions with the development opening
  areas            Public and common area descriptions by section
  unification      Unification of registered parcels
  dismemberment    Dismemberment into glebes
  unify-dismember  Unification followed by dismemberment

Reports are given as arguments or read from --dir.

Examples:
  memorial describe --dir ./project --mode lots
  memorial describe CivilReport_areas.html --mode areas --format markdown
  memorial describe --dir ./project --mode unification -o memorial.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			modeFlag, _ := cmd.Flags().GetString("mode")
			format, _ := cmd.Flags().GetString("format")
			color, _ := cmd.Flags().GetBool("color")
			output, _ := cmd.Flags().GetString("output")
			dated, _ := cmd.Flags().GetBool("dated")

			mode, err := memorial.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			engine, _, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			inputs, err := collectInputs(args, dir)
			if err != nil {
				return err
			}

			doc, err := engine.Build(cmd.Context(), mode, inputs)
			if err != nil {
				return err
			}
			if dated {
				city := locale.CityWithoutUF(engine.Project().City)
				doc.Sections = append(doc.Sections, memorial.Section{
					Paragraphs: []string{locale.LongDate(city, time.Now()) + "."},
				})
			}
			out, err := renderDocument(doc, format, color && output == "")
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, output, out); err != nil {
				return err
			}

			if n := doc.Placeholders(); n > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d placeholder(s) to fill in\n", n)
			}
			return nil
		},
	}

	addRuleFlags(cmd)
	cmd.Flags().String("dir", "", "Directory of survey reports")
	cmd.Flags().StringP("mode", "m", string(memorial.ModeLots), "Document mode")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, markdown, json")
	cmd.Flags().Bool("color", false, "Style bold runs and placeholders for the terminal")
	cmd.Flags().Bool("dated", false, "Close with the city and today's date")
	cmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	return cmd
}

func fractionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fractions [FILE...]",
		Short: "Compute the ideal fraction table of a condominium",
		Long: `Compute each lot's private, common and total area and its ideal
fraction of the condominium.

The project must be a condominium. The private area total comes from the
project file or, when absent, from the sum of lot areas.

Examples:
  memorial fractions --dir ./project
  memorial fractions QUADRA_A.txt QUADRA_B.txt --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			format, _ := cmd.Flags().GetString("format")

			engine, project, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			if !project.Condominium {
				return fmt.Errorf("project is not a condominium")
			}
			inputs, err := collectInputs(args, dir)
			if err != nil {
				return err
			}

			doc, err := engine.Build(cmd.Context(), memorial.ModeLots, inputs)
			if err != nil {
				return err
			}
			out, err := memorial.NewFractionTable(doc.Fractions).Format(memorial.OutputFormat(format))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().String("dir", "", "Directory of survey reports")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, csv, json")
	return cmd
}

func zoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zone CODE",
		Short: "Resolve a UTM zone and convert points",
		Long: `Resolve a UTM zone from a zone such as 22S, a state code such as RS or a
"City/UF" field, and print its SIRGAS 2000 reference system.

With --lat and --lon the point is projected into the zone. With --x and --y
the projected point is converted to latitude and longitude.

Examples:
  memorial zone 23S
  memorial zone MG
  memorial zone "Porto Alegre/RS" --x 480000 --y 6670000 --coords dms
  memorial zone 22S --lat -30.03 --lon -51.22`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			z, ok := crs.ParseZone(args[0])
			if !ok {
				if strings.Contains(args[0], "/") {
					z = crs.ZoneFromCity(args[0])
				} else {
					z = crs.RegionZone(args[0])
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Zone:             %s\n", z)
			fmt.Fprintf(out, "CRS:              %s\n", crs.ProjectedCRS(z))
			fmt.Fprintf(out, "Central meridian: %g\n", crs.CentralMeridian(z))

			flags := cmd.Flags()
			if flags.Changed("lat") && flags.Changed("lon") {
				lat, _ := flags.GetFloat64("lat")
				lon, _ := flags.GetFloat64("lon")
				x, y := crs.FromGeographic(lat, lon, z)
				fmt.Fprintf(out, "E: %sm  N: %sm\n", locale.FormatNumber(x, 3), locale.FormatNumber(y, 3))
			}
			if flags.Changed("x") && flags.Changed("y") {
				x, _ := flags.GetFloat64("x")
				y, _ := flags.GetFloat64("y")
				coords, _ := flags.GetString("coords")
				f, ok := crs.ParseFormat(coords)
				if !ok || !f.Geographic() {
					return fmt.Errorf("--coords must be dec or dms: %w", config.ErrInvalidFormat)
				}
				lat, lon := crs.ToGeographic(x, y, z)
				fmt.Fprintln(out, crs.FormatGeographic(lat, lon, f))
			}
			return nil
		},
	}

	cmd.Flags().Float64("lat", 0, "Latitude in decimal degrees")
	cmd.Flags().Float64("lon", 0, "Longitude in decimal degrees")
	cmd.Flags().Float64("x", 0, "Easting in meters")
	cmd.Flags().Float64("y", 0, "Northing in meters")
	cmd.Flags().String("coords", "dec", "Geographic format: dec, dms")
	return cmd
}

func azimuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "azimuth BEARING",
		Short: "Convert a bearing to an azimuth",
		Long: `Convert a quadrant bearing such as "S 45-30-00 E" or an azimuth in
degrees, minutes and seconds such as 134°30'00" to a decimal azimuth, its
DMS form and its cardinal direction.

Examples:
  memorial azimuth "N 45-30-15 W"
  memorial azimuth "134°30'00\""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			az, ok := bearing.ParseDMS(args[0])
			if ok {
				az = math.Mod(math.Mod(az, 360)+360, 360)
			} else if az, ok = bearing.ToAzimuth(args[0]); !ok {
				return fmt.Errorf("cannot read bearing %q", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Azimuth:  %s\n", locale.FormatNumber(az, 6))
			fmt.Fprintf(out, "DMS:      %s\n", bearing.ToDMS(az))
			fmt.Fprintf(out, "Cardinal: %s\n", bearing.Cardinal8(az))
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate a memorial when reports change",
		Long: `Watch a directory of survey reports and regenerate the memorial whenever
a report is added, changed or removed. Rule files in the rules directory
are reloaded when they change.

Examples:
  memorial watch --dir ./project --mode lots -o memorial.txt
  memorial watch --dir ./project --mode areas --format markdown -o areas.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			modeFlag, _ := cmd.Flags().GetString("mode")
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			debounce, _ := cmd.Flags().GetDuration("debounce")

			if dir == "" {
				return fmt.Errorf("--dir is required")
			}
			mode, err := memorial.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			project, err := loadProject(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			b := &rebuilder{project: project, mode: mode, dir: dir, format: format, output: output, cmd: cmd}
			if err := b.reloadRules(); err != nil {
				return err
			}
			if err := b.rebuild(ctx); err != nil {
				logger.Error("initial build failed", zap.Error(err))
			}

			dirs := []string{dir}
			if project.Rules.Dir != "" {
				dirs = append(dirs, project.Rules.Dir)
			}
			w := watch.New(watch.Config{Dirs: dirs, Debounce: debounce, Filter: watchFilter}, logger)
			w.OnChange(func(changes []watch.Change) error {
				return b.handle(ctx, changes)
			})
			if err := w.Start(ctx); err != nil {
				return err
			}

			<-w.Done()
			status := w.Status()
			logger.Info("watch stopped",
				zap.Int("batches", status.Batches),
				zap.Int("changes", status.Changes),
			)
			return nil
		},
	}

	addRuleFlags(cmd)
	cmd.Flags().String("dir", "", "Directory of survey reports")
	cmd.Flags().StringP("mode", "m", string(memorial.ModeLots), "Document mode")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, markdown, json")
	cmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before rebuilding")
	return cmd
}

// rebuilder regenerates one document from a watched directory.
type rebuilder struct {
	project    config.Project
	classifier *classify.Classifier
	mode       memorial.Mode
	dir        string
	format     string
	output     string
	cmd        *cobra.Command
}

func (b *rebuilder) handle(ctx context.Context, changes []watch.Change) error {
	rules := false
	for _, c := range changes {
		logger.Debug("file changed", zap.String("path", c.Path), zap.String("kind", string(c.Kind)))
		if isProjectFile(c.Path) {
			project, err := loadProject(b.cmd)
			if err != nil {
				return err
			}
			b.project = project
			rules = true
		} else if classify.IsRuleFile(c.Path) {
			rules = true
		}
	}
	if rules {
		if err := b.reloadRules(); err != nil {
			return err
		}
	}
	return b.rebuild(ctx)
}

func (b *rebuilder) reloadRules() error {
	c, err := loadClassifier(b.project)
	if err != nil {
		return err
	}
	b.classifier = c
	return nil
}

func (b *rebuilder) rebuild(ctx context.Context) error {
	inputs, err := memorial.ReadDir(b.dir)
	if err != nil {
		return err
	}
	engine := memorial.New(b.project, memorial.WithLogger(logger), memorial.WithClassifier(b.classifier))
	doc, err := engine.Build(ctx, b.mode, inputs)
	if err != nil {
		return err
	}
	out, err := renderDocument(doc, b.format, false)
	if err != nil {
		return err
	}
	return writeOutput(b.cmd, b.output, out)
}

func isProjectFile(path string) bool {
	if configPath != "" {
		return filepath.Base(path) == filepath.Base(configPath)
	}
	return filepath.Base(path) == config.DefaultFile
}

func watchFilter(name string) bool {
	return memorial.IsReportFile(name) || classify.IsRuleFile(name)
}

func addRuleFlags(cmd *cobra.Command) {
	cmd.Flags().String("rules", "", "Directory of classification rule files")
	cmd.Flags().String("set", "", "Rule set name")
}

// loadProject reads the project file and applies rule flags and the log level.
func loadProject(cmd *cobra.Command) (config.Project, error) {
	project, err := config.Load(configPath)
	if err != nil {
		return config.Project{}, err
	}
	if f := cmd.Flags().Lookup("rules"); f != nil && f.Value.String() != "" {
		project.Rules.Dir = f.Value.String()
	}
	if f := cmd.Flags().Lookup("set"); f != nil && f.Value.String() != "" {
		project.Rules.Set = f.Value.String()
	}
	if !verbose && project.Log.Level != "" {
		if err := logLevel.UnmarshalText([]byte(project.Log.Level)); err != nil {
			return config.Project{}, fmt.Errorf("invalid log level %q: %w", project.Log.Level, err)
		}
	}
	return project, nil
}

// loadClassifier returns the built-in classifier, or the configured set from
// the rules directory when one is given.
func loadClassifier(project config.Project) (*classify.Classifier, error) {
	if project.Rules.Dir == "" {
		return classify.Default(), nil
	}
	registry, err := classify.NewRegistryWithDirectory(project.Rules.Dir)
	if err != nil {
		return nil, err
	}
	c, err := classify.FromRegistry(registry, project.Rules.Set)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded rules",
		zap.String("dir", project.Rules.Dir),
		zap.String("set", project.Rules.Set),
		zap.Int("sets", registry.Count()),
	)
	return c, nil
}

func loadEngine(cmd *cobra.Command) (*memorial.Engine, config.Project, error) {
	project, err := loadProject(cmd)
	if err != nil {
		return nil, config.Project{}, err
	}
	classifier, err := loadClassifier(project)
	if err != nil {
		return nil, config.Project{}, err
	}
	return memorial.New(project, memorial.WithLogger(logger), memorial.WithClassifier(classifier)), project, nil
}

func collectInputs(args []string, dir string) ([]memorial.Input, error) {
	switch {
	case len(args) > 0 && dir != "":
		return nil, fmt.Errorf("give report files or --dir, not both")
	case len(args) > 0:
		return memorial.ReadFiles(args)
	case dir != "":
		return memorial.ReadDir(dir)
	default:
		return nil, fmt.Errorf("no report files given")
	}
}

func renderDocument(doc *memorial.Document, format string, color bool) (string, error) {
	switch format {
	case "markdown", "md":
		return memorial.RenderMarkdown(doc)
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case "text", "":
		if color {
			return RenderStyled(doc, DefaultStyles()), nil
		}
		return memorial.RenderText(doc), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func writeOutput(cmd *cobra.Command, path, content string) error {
	if path == "" {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("wrote document", zap.String("path", path))
	return nil
}

func itemTable(pf memorial.ParsedFile) memorial.Table {
	title := pf.Name
	if pf.Block != "" {
		title += " (" + pf.Block + ")"
	}
	table := memorial.Table{
		Title:   title,
		Headers: []string{"Item", "Lote", "Segmentos", "Área (m²)", "Perímetro (m)", "Fechamento (m)"},
	}
	for _, it := range pf.Items {
		number, area, closure := "", "", "-"
		if it.Number > 0 {
			number = fmt.Sprint(it.Number)
		}
		if it.Area != nil {
			area = locale.FormatNumber(*it.Area, 2)
		}
		if it.Origin != nil {
			closure = locale.FormatNumber(geometry.Closure(it.Origin, it.Segments), 3)
		}
		table.Rows = append(table.Rows, []string{
			it.Name, number, fmt.Sprint(len(it.Segments)), area,
			locale.FormatNumber(geometry.Perimeter(it.Segments), 2), closure,
		})
	}
	return table
}
