package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"fridge-planner/internal/api/handlers/plan"
	"fridge-planner/internal/core/graph"
	"fridge-planner/internal/core/inventory"
	"fridge-planner/internal/core/recipe"
	"fridge-planner/internal/core/service"
	"fridge-planner/internal/infrastructure/config"
	"fridge-planner/internal/pkg/common"

	"go.uber.org/zap"
)

const usage = `Usage: mealplan <command> [flags]

Commands:
  plan    recommend recipes, most urgent first
  list    list the fridge inventory
  graph   print the conflict or meal graph in Graphviz DOT format

Run "mealplan <command> -h" for the flags of a command.
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "mealplan: %v\n", err)
		os.Exit(1)
	}
}

// options 命令列參數
type options struct {
	file          string
	policy        string
	order         string
	seed          int64
	date          string
	favorites     string
	noPrompt      bool
	skipMalformed bool
	server        string
	timeout       time.Duration
	logLevel      string
	sortBy        string
	kind          string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	cmd := args[0]
	opts, err := parseFlags(cmd, args[1:], cfg, stderr)
	if err != nil {
		return err
	}

	if err := common.InitLogger(common.LoggerOptions{
		Level:   opts.logLevel,
		File:    cfg.LogFile,
		Service: "mealplan",
		Color:   true,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer common.Sync()

	switch cmd {
	case "plan":
		return runPlan(opts, stdin, stdout)
		return runList(opts, stdout)
	case "graph":
		return runGraph(opts, stdout)
	}
	return nil
}

func parseFlags(cmd string, args []string, cfg *config.Config, stderr io.Writer) (*options, error) {
	switch cmd {
	case "plan", "list", "graph":
	default:
		fmt.Fprint(stderr, usage)
		return nil, fmt.Errorf("unknown command %q", cmd)
	}

	opts := &options{}
	fs := flag.NewFlagSet("mealplan "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.file, "file", "fridge.csv", "inventory CSV with Starches, Meats and Vegetables columns")
	fs.StringVar(&opts.date, "date", cfg.Planner.ReferenceDate, "reference date YYYY-MM-DD (default today)")
	fs.BoolVar(&opts.skipMalformed, "skip-malformed", cfg.Planner.MissingPolicy == "skip", "skip malformed records instead of aborting")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	switch cmd {
	case "plan", "graph":
		fs.StringVar(&opts.policy, "policy", cfg.Planner.Policy, "urgency score: sum or min")
		fs.StringVar(&opts.order, "order", cfg.Planner.Order, "colouring order: sequential or shuffled")
		fs.Int64Var(&opts.seed, "seed", cfg.Planner.Seed, "seed for the shuffled order (0 = random)")
	}
	switch cmd {
	case "plan":
		fs.StringVar(&opts.favorites, "favorites", "", "comma-separated favourite item names")
		fs.BoolVar(&opts.noPrompt, "no-prompt", false, "do not ask for favourites interactively")
		fs.StringVar(&opts.server, "server", "", "plan on a remote server, e.g. http://localhost:8080")
		fs.DurationVar(&opts.timeout, "timeout", 10*time.Second, "remote request timeout")
	case "graph":
		fs.StringVar(&opts.kind, "kind", string(graph.DOTConflict), "graph kind: conflict or meals")
	}
	switch cmd {
	case "plan", "list":
		fs.StringVar(&opts.sortBy, "sort", "name", "inventory listing order: name or expiry")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	switch opts.sortBy {
	case "", "name", "expiry":
	default:
		return nil, fmt.Errorf("unknown sort order %q", opts.sortBy)
	}
	return opts, nil
}

// plannerConfig 以命令列參數組成規劃設定
func (o *options) plannerConfig() config.PlannerConfig {
	missing := "abort"
	if o.skipMalformed {
		missing = "skip"
	}
	return config.PlannerConfig{
		Policy:        o.policy,
		Order:         o.order,
		Seed:          o.seed,
		ReferenceDate: o.date,
		MissingPolicy: missing,
	}
}

func (o *options) loader() (*inventory.Loader, error) {
	return o.plannerConfig().Loader()
}

func (o *options) planOptions(favorites []string) (recipe.Options, error) {
	return o.plannerConfig().Options(favorites)
}

func loadInventory(o *options) (*inventory.Inventory, error) {
	loader, err := o.loader()
	if err != nil {
		return nil, err
	}
	return loader.LoadFile(o.file)
}

func runPlan(o *options, stdin io.Reader, stdout io.Writer) error {
	favorites := common.SplitList(o.favorites)

	result, err := computePlan(o, favorites)
	if err != nil {
		return err
	}

	recipe.WriteInventory(stdout, displayOrder(result.Items, o.sortBy))

	if len(favorites) > 0 || o.noPrompt || result.Empty() {
		recipe.WritePlan(stdout, result, len(favorites) > 0)
		return nil
	}

	// 先列出依到期日的菜單，再詢問偏好
	recipe.WriteSchedule(stdout, "Meal recommendation based on expired date", result.Base, result.Policy)
	fmt.Fprintln(stdout)
	favorites, err = askFavorites(stdin, stdout)
	if err != nil {
		return err
	}
	result.Preferred = recipe.PreferredOrder(result.Base, favorites)
	recipe.WriteSchedule(stdout, "Meal recommendation based on your preferences", result.Preferred, result.Policy)
	recipe.WriteLeftovers(stdout, result.Leftovers)
	return nil
}

// computePlan 在本機或遠端計算菜單
func computePlan(o *options, favorites []string) (*recipe.Plan, error) {
	if o.server != "" {
		return remotePlan(o, favorites)
	}

	inv, err := loadInventory(o)
	if err != nil {
		return nil, err
	}
	planOpts, err := o.planOptions(favorites)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := recipe.NewPlanner(nil).Plan(inv, planOpts)
	common.LogPlanRun(result.Policy, len(result.Base), time.Since(start), nil)
	return result, nil
}

func remotePlan(o *options, favorites []string) (*recipe.Plan, error) {
	f, err := os.Open(o.file)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory file: %w", err)
	}
	defer f.Close()

	raw, err := inventory.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.file, err)
	}
	records := make(map[string][]string, len(raw))
	for cat, list := range raw {
		records[string(cat)] = list
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	resp, err := service.NewPlanClient(o.server, o.timeout).CreatePlan(ctx, plan.PlanRequest{
		Inventory:     records,
		Favorites:     favorites,
		Policy:        o.policy,
		Order:         o.order,
		Seed:          o.seed,
		Date:          o.date,
		SkipMalformed: o.skipMalformed,
	})
	if err != nil {
		return nil, err
	}
	common.LogInfo("使用遠端規劃結果",
		zap.String("server", o.server),
		zap.String("plan_id", resp.ID),
		zap.Bool("cached", resp.Cached),
	)
	return resp.Plan, nil
}

func runList(o *options, stdout io.Writer) error {
	inv, err := loadInventory(o)
	if err != nil {
		return err
	}
	recipe.WriteInventory(stdout, displayOrder(inv.All(), o.sortBy))
	return nil
}

// displayOrder 冰箱清單的顯示順序，預設依名稱
func displayOrder(items []inventory.FoodItem, sortBy string) []inventory.FoodItem {
	out := append([]inventory.FoodItem(nil), items...)
	if sortBy == "expiry" {
		inventory.SortByExpiry(out)
	} else {
		inventory.SortByName(out)
	}
	return out
}

func runGraph(o *options, stdout io.Writer) error {
	kind, err := graph.ParseDOTKind(o.kind)
	if err != nil {
		return err
	}
	inv, err := loadInventory(o)
	if err != nil {
		return err
	}
	planOpts, err := o.planOptions(nil)
	if err != nil {
		return err
	}
	result := recipe.NewPlanner(nil).Plan(inv, planOpts)
	return graph.WriteDOT(stdout, result.Graph, result.Colors, kind)
}
