package app

import (
	"context"
	"database/sql"
	"fmt"

	"wellness-tracker/internal/catalog"
	"wellness-tracker/internal/coach"
	"wellness-tracker/internal/config"
	"wellness-tracker/internal/database"
	"wellness-tracker/internal/daystore"
	"wellness-tracker/internal/metrics"
	"wellness-tracker/internal/planner"
	"wellness-tracker/internal/shopping"
	"wellness-tracker/internal/storage"

	"go.uber.org/zap"
)

// App holds the application's dependencies.
type App struct {
	Catalog   *catalog.Catalog
	Plan      *planner.MealPlan
	Journal   *daystore.Journal
	Coach     *coach.Coach
	Groceries *shopping.Repository
	Metrics   *metrics.Store

	cfg    *config.Config
	db     *database.DB
	logger *zap.Logger
}

// New loads the catalog and plan, opens the database and builds the stores
// selected by cfg.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	plan, err := loadPlan(cfg.PlanPath, cat)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var kv daystore.KV
	switch cfg.StoreBackend {
	case config.BackendFile:
		fs, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		kv = fs
	default:
		kv = storage.NewSQLiteStore(db.SQL)
	}

	return Assemble(cfg, db, kv, cat, plan, logger), nil
}

// Assemble wires an App from already-built parts.
func Assemble(cfg *config.Config, db *database.DB, kv daystore.KV, cat *catalog.Catalog, plan *planner.MealPlan, logger *zap.Logger) *App {
	metricsStore := metrics.NewStore(db.SQL)
	journal := daystore.NewJournal(daystore.NewStore(kv, logger))

	return &App{
		Catalog:   cat,
		Plan:      plan,
		Journal:   journal,
		Coach:     coach.New(journal, metricsStore, logger),
		Groceries: shopping.NewRepository(db.SQL),
		Metrics:   metricsStore,
		cfg:       cfg,
		db:        db,
		logger:    logger,
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

func loadPlan(path string, cat *catalog.Catalog) (*planner.MealPlan, error) {
	if path == "" {
		return planner.Default(cat), nil
	}
	plan, err := planner.LoadFile(path, cat)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return plan, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}

// DB returns the SQLite handle shared by the stores.
func (a *App) DB() *sql.DB {
	return a.db.SQL
}

// Config returns the configuration the App was built from.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// DataPaths lists the on-disk locations counted by the health report.
func (a *App) DataPaths() []string {
	paths := []string{a.cfg.DatabasePath}
	if a.cfg.StoreBackend == config.BackendFile {
		paths = append(paths, a.cfg.DataDir)
	}
	return paths
}

// GroceryList aggregates the plan against the price catalog. When save is
// set the result is also stored as a snapshot and its id returned.
func (a *App) GroceryList(ctx context.Context, save bool) (shopping.Result, int64, error) {
	res := shopping.GenerateGroceryList(a.Plan, a.Catalog.Prices)
	for _, adv := range res.Advisories {
		a.logger.Debug("Grocery list advisory", zap.String("advisory", adv.String()))
	}
	if !save {
		return res, 0, nil
	}

	id, err := a.Groceries.Save(ctx, res)
	if err != nil {
		return res, 0, err
	}
	a.logger.Info("Grocery list saved", zap.Int64("id", id), zap.Int("items", len(res.Items)))
	return res, id, nil
}

// DayView is a plan day joined with its journal record.
type DayView struct {
	Phase     string   `json:"phase"`
	Day       int      `json:"day"`
	Kind      string   `json:"kind"`
	Juices    []string `json:"juices,omitempty"`
	Meals     []string `json:"meals,omitempty"`
	Note      string   `json:"note"`
	CoachText string   `json:"coachText"`
}

// Agenda returns every plan day in order with its stored note and advice.
func (a *App) Agenda(ctx context.Context) ([]DayView, error) {
	records, err := a.Journal.Days(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]daystore.DayRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	days := a.Plan.Days()
	views := make([]DayView, 0, len(days))
	for _, d := range days {
		views = append(views, joinDay(d, byID[d.Day]))
	}
	return views, nil
}

// Day returns a single plan day with its journal record.
func (a *App) Day(ctx context.Context, n int) (DayView, error) {
	ref, err := a.Plan.Day(n)
	if err != nil {
		return DayView{}, err
	}
	rec, err := a.Journal.Day(ctx, n)
	if err != nil {
		return DayView{}, err
	}
	return joinDay(ref, rec), nil
}

func joinDay(ref planner.DayRef, rec daystore.DayRecord) DayView {
	juices, meals := planner.Lists(ref.Content)
	note := ref.Note
	if rec.Note != "" {
		note = rec.Note
	}
	return DayView{
		Phase:     ref.Phase,
		Day:       ref.Day,
		Kind:      planner.Kind(ref.Content),
		Juices:    juices,
		Meals:     meals,
		Note:      note,
		CoachText: rec.CoachText,
	}
}
