package maintenance

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/gamekeeper/internal/platform/config"
	"github.com/louisbranch/gamekeeper/internal/platform/timeouts"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/deletion"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
	"github.com/louisbranch/gamekeeper/internal/tools/seed"
)

// Config holds maintenance command configuration.
type Config struct {
	DBPath     string        `env:"GAMEKEEPER_ROSTER_DB_PATH"`
	Timeout    time.Duration `env:"GAMEKEEPER_MAINTENANCE_TIMEOUT"`
	Mark       bool
	Unmark     bool
	Purge      bool
	PurgeAll   bool
	Report     bool
	SeedPath   string
	Kind       string
	ID         int64
	JSONOutput bool
}

type envConfig struct {
	DBPath  string        `env:"GAMEKEEPER_ROSTER_DB_PATH"`
	Timeout time.Duration `env:"GAMEKEEPER_MAINTENANCE_TIMEOUT"`
}

// ParseConfig parses env defaults through lookup and then flags into a
// Config. A nil lookup reads the process environment.
func ParseConfig(fs *flag.FlagSet, args []string, lookup func(string) (string, bool)) (Config, error) {
	if fs == nil {
		return Config{}, errors.New("flag set is required")
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var envCfg envConfig
	if err := config.LookupEnv(&envCfg, lookup); err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:  envCfg.DBPath,
		Timeout: envCfg.Timeout,
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "roster.db")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = timeouts.Maintenance
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to roster sqlite database (default: GAMEKEEPER_ROSTER_DB_PATH or data/roster.db)")
	fs.BoolVar(&cfg.Mark, "mark", false, "mark one row for deletion (requires -kind and -id)")
	fs.BoolVar(&cfg.Unmark, "unmark", false, "clear the deletion mark on one row (requires -kind and -id)")
	fs.BoolVar(&cfg.Purge, "purge", false, "permanently remove marked rows of one kind (requires -kind)")
	fs.BoolVar(&cfg.PurgeAll, "purge-all", false, "permanently remove marked rows of every kind")
	fs.BoolVar(&cfg.Report, "report", false, "report marked row counts per kind")
	fs.StringVar(&cfg.SeedPath, "seed", "", "load a JSON roster manifest")
	fs.StringVar(&cfg.Kind, "kind", "", "row kind (player|character|live_character)")
	fs.Int64Var(&cfg.ID, "id", 0, "row id for -mark and -unmark")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output JSON reports")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type action string

const (
	actionMark     action = "mark"
	actionUnmark   action = "unmark"
	actionPurge    action = "purge"
	actionPurgeAll action = "purge_all"
	actionReport   action = "report"
	actionSeed     action = "seed"
)

// request is a validated maintenance invocation.
type request struct {
	action action
	kind   roster.Kind
	id     int64
	seed   string
}

// resolveRequest checks flag combinations before any store is opened.
func resolveRequest(cfg Config) (request, error) {
	var actions []action
	if cfg.Mark {
		actions = append(actions, actionMark)
	}
	if cfg.Unmark {
		actions = append(actions, actionUnmark)
	}
	if cfg.Purge {
		actions = append(actions, actionPurge)
	}
	if cfg.PurgeAll {
		actions = append(actions, actionPurgeAll)
	}
	if cfg.Report {
		actions = append(actions, actionReport)
	}
	if strings.TrimSpace(cfg.SeedPath) != "" {
		actions = append(actions, actionSeed)
	}
	if len(actions) == 0 {
		return request{}, errors.New("one of -mark, -unmark, -purge, -purge-all, -report, or -seed is required")
	}
	if len(actions) > 1 {
		return request{}, fmt.Errorf("only one action may be given, got %d", len(actions))
	}

	req := request{action: actions[0], seed: strings.TrimSpace(cfg.SeedPath)}
	switch req.action {
	case actionMark, actionUnmark:
		kind, err := roster.ParseKind(cfg.Kind)
		if err != nil {
			return request{}, err
		}
		if err := roster.ValidateID(cfg.ID); err != nil {
			return request{}, err
		}
		req.kind, req.id = kind, cfg.ID
	case actionPurge:
		kind, err := roster.ParseKind(cfg.Kind)
		if err != nil {
			return request{}, err
		}
		if cfg.ID != 0 {
			return request{}, errors.New("-purge does not accept -id")
		}
		req.kind = kind
	default:
		if strings.TrimSpace(cfg.Kind) != "" || cfg.ID != 0 {
			return request{}, fmt.Errorf("-%s does not accept -kind or -id", strings.ReplaceAll(string(req.action), "_", "-"))
		}
	}
	return req, nil
}

// Run executes the maintenance command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	req, err := resolveRequest(cfg)
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("-db-path is required")
	}

	store, err := openRosterStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open roster store: %w", err)
	}
	return runWithDeps(ctx, cfg, req, store, out, errOut)
}

// runWithDeps contains the core maintenance logic with injectable dependencies.
// It owns the lifecycle of the store (closing it on return).
func runWithDeps(ctx context.Context, cfg Config, req request, store closableRosterStore, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(errOut, "Error: close roster store: %v\n", err)
		}
	}()

	service, err := deletion.NewService(store)
	if err != nil {
		return err
	}

	var result runResult
	switch req.action {
	case actionMark, actionUnmark:
		result = runSetDeletion(ctx, service, req)
	case actionPurge:
		result = runPurge(ctx, service, req.kind)
	case actionPurgeAll:
		result = runPurgeAll(ctx, service)
	case actionReport:
		result = runReport(ctx, store)
	case actionSeed:
		result = runSeed(ctx, store, req.seed)
	default:
		return fmt.Errorf("unsupported action %q", req.action)
	}

	if cfg.JSONOutput {
		outputJSON(out, errOut, result)
	} else {
		printResult(out, errOut, result)
	}
	if result.ExitCode != 0 {
		return errors.New("maintenance failed")
	}
	return nil
}

func runSetDeletion(ctx context.Context, service *deletion.Service, req request) runResult {
	result := runResult{Mode: string(req.action), Kind: req.kind.String(), ID: req.id}
	deleted, err := service.SetDeletion(ctx, req.kind, req.id, req.action == actionMark)
	if err != nil {
		result.fail(err)
		return result
	}
	result.Deleted = &deleted
	return result
}

func runPurge(ctx context.Context, service *deletion.Service, kind roster.Kind) runResult {
	result := runResult{Mode: string(actionPurge), Kind: kind.String()}
	purge, err := service.Purge(ctx, kind)
	result.Purges = []purgeEntry{newPurgeEntry(purge, err)}
	if err != nil {
		result.fail(err)
	}
	return result
}

func runPurgeAll(ctx context.Context, service *deletion.Service) runResult {
	result := runResult{Mode: string(actionPurgeAll)}
	report, err := service.PurgeAll(ctx)
	for _, purge := range report.Results {
		result.Purges = append(result.Purges, newPurgeEntry(purge, purge.Err))
	}
	if err != nil {
		result.fail(err)
	}
	return result
}

func runReport(ctx context.Context, store closableRosterStore) runResult {
	result := runResult{Mode: string(actionReport)}
	for _, kind := range roster.Kinds() {
		count, err := store.CountDeleted(ctx, kind)
		if err != nil {
			result.fail(fmt.Errorf("count deleted %s rows: %w", kind, err))
			return result
		}
		result.Counts = append(result.Counts, countEntry{Kind: kind.String(), Deleted: count})
	}
	return result
}

func runSeed(ctx context.Context, store closableRosterStore, path string) runResult {
	result := runResult{Mode: string(actionSeed)}
	loaded, err := seed.LoadFile(ctx, store, path)
	if err != nil {
		result.fail(fmt.Errorf("seed %s: %w", path, err))
		return result
	}
	result.Seeded = &loaded
	return result
}
