package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"scenepatch/internal/catalog"
	"scenepatch/internal/config"
	"scenepatch/internal/filewalker"
	"scenepatch/internal/history"
	"scenepatch/internal/mutate"
	"scenepatch/internal/parser"
	"scenepatch/internal/render"
	"scenepatch/internal/rewrite"
	"scenepatch/internal/scenegraph"
	"scenepatch/internal/textutil"
	"scenepatch/internal/worker"

	"github.com/fsnotify/fsnotify"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "scenepatch",
		Short: "Structural editing and failure hardening for scene-animation scripts",
		Long: `scenepatch recovers objects, groups and animations from scene scripts,
applies precise single-property edits, and rewrites animation statements
so one renderer failure cannot abort a whole run.`,
	}

	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(setCmd())
	rootCmd.AddCommand(hardenCmd())
	rootCmd.AddCommand(restoreCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(graphCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <script-or-dir>",
		Short: "Extract and print the structural model of scene scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
}

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <script> <object> <property> <value...>",
		Short: "Apply one property change (position|scale|width|height|font-size|color)",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args[0], args[1], args[2], args[3:])
		},
	}
}

func hardenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harden <script>",
		Short: "Produce render-ready text with idiom substitution and failure isolation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")
			return runHarden(args[0], out)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output path (stdout if empty)")
	return cmd
}

func restoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <script>",
		Short: "Remove generated wrappers and the injected fallback routine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")
			return runRestore(args[0], out)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output path (in place if empty)")
	return cmd
}

func renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <script>",
		Short: "Harden the script and run it through the external renderer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(args[0])
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <script>",
		Short: "Re-render on every change to the script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0])
		},
	}
}

func graphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph <script>",
		Short: "Export the object/variable reference graph to Neo4j",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(args[0])
		},
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent mutation and render events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return runHistory(limit)
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	return cmd
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

func loadCatalog(cfg *config.Config) *catalog.Table {
	tbl, err := catalog.LoadOverride(cfg.CatalogPath)
	if err != nil {
		log.Warn().Err(err).Msg("Catalog override not loaded, using defaults")
		return catalog.Default()
	}
	return tbl
}

// openHistory returns a ready store, or nil when history is not
// configured.
func openHistory(ctx context.Context, cfg *config.Config) (*history.Store, *pgxpool.Pool) {
	if !cfg.HistoryEnabled() {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("History disabled: cannot connect PostgreSQL")
		return nil, nil
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Warn().Err(err).Msg("History disabled: cannot ping PostgreSQL")
		return nil, nil
	}
	store := history.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		log.Warn().Err(err).Msg("History disabled: schema setup failed")
		return nil, nil
	}
	return store, pool
}

// runInspect handles the `inspect` command.
func runInspect(path string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	tbl := loadCatalog(cfg)

	w := filewalker.NewWalker()
	paths, err := w.Walk(path)
	if err != nil {
		return fmt.Errorf("discover scripts: %w", err)
	}

	pool := worker.NewPool[string, *parser.Scene](cfg.WorkerCount,
		func(ctx context.Context, p string) (*parser.Scene, error) {
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("read script: %w", err)
			}
			return parser.Parse(string(data), tbl), nil
		},
	)

	for _, task := range pool.Execute(ctx, paths) {
		if task.Err != nil {
			log.Error().Err(task.Err).Str("script", task.Input).Msg("Parse failed")
			continue
		}
		printScene(task.Input, task.Result)
	}
	return nil
}

func printScene(path string, scene *parser.Scene) {
	fmt.Printf("%s\n", path)
	for _, o := range scene.Objects {
		fmt.Printf("  object %-16s %-18s pos=(%g, %g, %g) source=%s",
			o.Name, o.Type, o.Position[0], o.Position[1], o.Position[2], o.PositionSource)
		if o.PosVar != "" {
			privacy := "shared"
			if o.PosVarPrivate {
				privacy = "private"
			}
			fmt.Printf(" var=%s(%s)", o.PosVar, privacy)
		}
		if o.GroupLike {
			fmt.Printf(" children=%v", o.Children)
		}
		fmt.Println()
	}
	for _, a := range scene.Animations {
		fmt.Printf("  anim %3d line=%-4d kind=%-22s targets=%v  %s\n",
			a.Index, a.Line, a.Kind, a.Expanded, a.Preview)
	}
}

// runSet handles the `set` command: one property, one object, one call.
func runSet(path, object, property string, values []string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	tbl := loadCatalog(cfg)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	scene := parser.Parse(string(data), tbl)

	floats := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil && property != "color" {
			return fmt.Errorf("numeric value expected: %q", v)
		}
		floats = append(floats, f)
	}

	var out string
	var changed bool
	switch property {
	case "position":
		if len(floats) < 2 {
			return fmt.Errorf("position needs x y [z]")
		}
		pos := [3]float64{floats[0], floats[1]}
		if len(floats) > 2 {
			pos[2] = floats[2]
		}
		out, changed = mutate.SetPosition(scene, object, pos)
	case "scale":
		out, changed = mutate.SetScale(scene, object, floats[0])
	case "width":
		out, changed = mutate.SetWidth(scene, object, floats[0])
	case "height":
		out, changed = mutate.SetHeight(scene, object, floats[0])
	case "font-size":
		out, changed = mutate.SetFontSize(scene, object, floats[0])
	case "color":
		out, changed = mutate.SetColor(scene, object, values[0])
	default:
		return fmt.Errorf("unknown property: %s", property)
	}

	if !changed {
		log.Info().Str("object", object).Str("property", property).Msg("No applicable edit, text unchanged")
		return nil
	}

	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	scene.ClearModified()
	log.Info().Str("object", object).Str("property", property).Msg("Script updated")

	if store, pool := openHistory(ctx, cfg); store != nil {
		defer pool.Close()
		detail := strings.Join(values, " ")
		if err := store.RecordMutation(ctx, path, object, property, detail); err != nil {
			log.Warn().Err(err).Msg("Failed to record mutation")
		}
	}
	return nil
}

// runHarden handles the `harden` command.
func runHarden(path, outPath string) error {
	cfg := config.Load()
	tbl := loadCatalog(cfg)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	hardened := rewrite.Harden(string(data), tbl)
	if outPath == "" {
		fmt.Print(hardened)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(hardened), 0644); err != nil {
		return fmt.Errorf("write hardened script: %w", err)
	}
	log.Info().Str("output", outPath).Msg("Hardened script written")
	return nil
}

// runRestore handles the `restore` command.
func runRestore(path, outPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	restored := rewrite.Unwrap(string(data))
	if outPath == "" {
		outPath = path
	}
	if err := os.WriteFile(outPath, []byte(restored), 0644); err != nil {
		return fmt.Errorf("write restored script: %w", err)
	}
	log.Info().Str("output", outPath).Msg("Wrappers removed")
	return nil
}

// runRender handles the `render` command: harden fresh, then hand the
// finalized text to the renderer. Mutation never interleaves with the
// live process.
func runRender(path string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	tbl := loadCatalog(cfg)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	hardened := rewrite.Harden(string(data), tbl)

	runner := render.NewRunner(cfg.RendererCommand)
	result, runErr := runner.Run(ctx, hardened)

	if result != nil {
		for _, d := range result.Diagnostics {
			fmt.Printf("line %d: %s\n", d.Line, d.Message)
		}
		// Position reports pass through in wire form so consumers can
		// pattern-match them off this process as well.
		for _, p := range result.Positions {
			fmt.Println(render.FormatPositionReport(p.Name, p.Pos))
		}
		if store, pool := openHistory(ctx, cfg); store != nil {
			defer pool.Close()
			if err := store.RecordRender(ctx, path, len(result.Diagnostics), result.ExitCode); err != nil {
				log.Warn().Err(err).Msg("Failed to record render")
			}
		}
	}
	return runErr
}

// runWatch handles the `watch` command: debounced re-render on change.
func runWatch(path string) error {
	ctx, cancel := setupContext()
	defer cancel()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch script: %w", err)
	}

	cfg := config.Load()
	debounce := time.Duration(cfg.WatchDebounceMS) * time.Millisecond
	log.Info().Str("script", path).Dur("debounce", debounce).Msg("Watching for changes")

	var timer *time.Timer
	var lastHash string
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("Watcher error")
		case <-fire:
			// Editors replace the file on save; re-add in case the
			// original inode is gone.
			_ = watcher.Add(path)

			if data, err := os.ReadFile(path); err == nil {
				h := textutil.Hash(string(data))
				if h == lastHash {
					log.Debug().Str("script", path).Msg("Content unchanged, skipping render")
					continue
				}
				lastHash = h
			}
			if err := runRender(path); err != nil {
				log.Error().Err(err).Msg("Render failed")
			}
		}
	}
}

// runGraph handles the `graph` command.
func runGraph(path string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	tbl := loadCatalog(cfg)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	scene := parser.Parse(string(data), tbl)

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return fmt.Errorf("connect Neo4j: %w", err)
	}
	defer driver.Close(ctx)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Info().Msg("Connected to Neo4j")

	exporter := scenegraph.NewExporter(driver)
	if err := exporter.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure graph schema: %w", err)
	}
	if err := exporter.Export(ctx, scene, path); err != nil {
		return fmt.Errorf("export scene graph: %w", err)
	}
	return nil
}

// runHistory handles the `history` command.
func runHistory(limit int) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	store, pool := openHistory(ctx, cfg)
	if store == nil {
		return fmt.Errorf("history requires DATABASE_URL")
	}
	defer pool.Close()

	events, err := store.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	for _, e := range events {
		fmt.Printf("%s  %-7s %-30s %s %s %s\n",
			e.CreatedAt.Format(time.RFC3339), e.Kind, e.Script, e.Object, e.Property, e.Detail)
	}
	return nil
}
