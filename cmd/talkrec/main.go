package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"talkrec/internal/config"
	"talkrec/internal/domain"
	"talkrec/internal/embedding"
	"talkrec/internal/feed"
	"talkrec/internal/logger"
	"talkrec/internal/service"
	"talkrec/internal/summarizer"
	"talkrec/internal/tui"
	"talkrec/internal/vectorstore/file"
)

const (
	exitOK = iota
	exitFailure
	exitUsage
	exitData
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("talkrec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath     = fs.String("config", "", "Path to YAML config file (optional; uses ./talkrec.yaml or ~/.config/talkrec/config.yaml if not provided)")
		generate    = fs.String("g", "", "Generate corpus vectors with the given scheme (count, tfidf)")
		recommend   = fs.String("r", "", "Recommend talks using the given metric (cosine, euclidean, manhattan, minkowski[:p], jaccard)")
		user        = fs.String("u", "", "User whose bookmarked talks form the profile")
		start       = fs.String("s", "", "First month (YYYY-MM) of candidate talks")
		end         = fs.String("e", "", "Last month (YYYY-MM) of candidate talks")
		topN        = fs.Int("n", -1, "Number of recommendations to print (0 = all; default from config)")
		minkowskiP  = fs.Float64("p", 0, "Minkowski exponent (default from config)")
		scheme      = fs.String("scheme", "", "Vector store to rank against (default from config)")
		excludeSeen = fs.Bool("exclude-seen", false, "Leave the user's bookmarked talks out of the ranking")
		interactive = fs.Bool("tui", false, "Browse the ranking interactively")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: talkrec [-config=talkrec.yaml] -g <scheme> | -r <metric> -u <user> [-s YYYY-MM] [-e YYYY-MM] [-n N] [-tui]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *generate == "" && *recommend == "" && !*interactive {
		fs.Usage()
		return exitUsage
	}

	var cfg *config.AppConfig
	var err error
	if *cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(*cfgPath)
	}
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitCode(err)
	}
	if *minkowskiP != 0 {
		cfg.Recommender.MinkowskiP = *minkowskiP
	}
	if *topN >= 0 {
		cfg.Recommender.TopN = *topN
	}

	env := cfg.Logging.Env
	if v := os.Getenv("TALKREC_ENV"); v != "" {
		env = v
	}
	log, err := logger.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(stderr, "failed to init logger: %v\n", err)
		return exitFailure
	}
	defer func() { _ = log.Sync() }()

	svc := service.NewRecommendService(
		feed.NewSource(cfg.DataDir),
		embedding.NewVectorizer(nil),
		file.NewStorage(cfg.VectorDir),
		service.Options{
			Corpus:     service.Window{Start: cfg.Feed.Start, End: cfg.Feed.End},
			Profiles:   cfg.Profiles,
			MinkowskiP: cfg.Recommender.MinkowskiP,
			Summary:    summarizer.NewTermSummarizer(cfg.Recommender.SummaryLen),
		},
		log,
	)

	if *generate != "" {
		if err := runGenerate(svc, *generate, stdout); err != nil {
			log.Error("generate failed", zap.Error(err))
			fmt.Fprintf(stderr, "generate: %v\n", err)
			return exitCode(err)
		}
	}

	if *recommend == "" && !*interactive {
		return exitOK
	}
	metric := *recommend
	if metric == "" {
		metric = cfg.Recommender.Metric
	}
	storeScheme := *scheme
	if storeScheme == "" {
		storeScheme = cfg.Recommender.Scheme
	}
	req, err := buildRequest(*user, metric, storeScheme, *start, *end, cfg.Recommender.TopN, *excludeSeen)
	if err != nil {
		fmt.Fprintf(stderr, "recommend: %v\n", err)
		fs.Usage()
		return exitCode(err)
	}
	res, err := svc.Recommend(req)
	if err != nil {
		log.Error("recommend failed", zap.String("user", req.User), zap.Error(err))
		fmt.Fprintf(stderr, "recommend: %v\n", err)
		return exitCode(err)
	}

	if *interactive {
		if _, err := tea.NewProgram(tui.New(svc, req, res)).Run(); err != nil {
			fmt.Fprintf(stderr, "tui: %v\n", err)
			return exitFailure
		}
		return exitOK
	}
	printResult(stdout, res)
	return exitOK
}

func runGenerate(svc *service.RecommendService, name string, out io.Writer) error {
	scheme, err := domain.ParseScheme(name)
	if err != nil {
		return err
	}
	sum, err := svc.Generate(scheme)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d %s vectors from %d feed items.\n", sum.Vectors, sum.Scheme, sum.Documents)
	return nil
}

func buildRequest(user, metric, scheme, start, end string, topN int, excludeSeen bool) (service.Request, error) {
	if user == "" {
		return service.Request{}, fmt.Errorf("%w: -u <user> is required to recommend", errUsage)
	}
	s, err := domain.ParseScheme(scheme)
	if err != nil {
		return service.Request{}, err
	}
	for _, bound := range []string{start, end} {
		if bound == "" {
			continue
		}
		if _, err := feed.ParseMonth(bound); err != nil {
			return service.Request{}, fmt.Errorf("%w: %v", errUsage, err)
		}
	}
	if start != "" && end != "" {
		if _, err := feed.Months(start, end); err != nil {
			return service.Request{}, fmt.Errorf("%w: %v", errUsage, err)
		}
	}
	return service.Request{
		User:        user,
		Metric:      metric,
		Scheme:      s,
		Candidates:  service.Window{Start: start, End: end},
		TopN:        topN,
		ExcludeSeen: excludeSeen,
	}, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func printResult(out io.Writer, res service.Result) {
	label := "similarity"
	if res.Metric.Distance() {
		label = "distance"
	}
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Recommendations for %s by %s over %s vectors", res.User, res.Metric, res.Scheme)))
	fmt.Fprintln(out, dimStyle.Render("profile: "+res.Profile))
	if res.Degenerate > 0 {
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d talks without terms were not scored", res.Degenerate)))
	}
	fmt.Fprintf(out, "showing %d of %d\n\n", len(res.Items), res.Total)
	for i, it := range res.Items {
		header := fmt.Sprintf("%3d. [%s] %s=%s", i+1, it.ID, label, scoreStyle.Render(fmt.Sprintf("%.4f", it.Score)))
		if !it.Found {
			fmt.Fprintln(out, header)
			continue
		}
		fmt.Fprintf(out, "%s  %s", header, it.Talk)
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage), domain.IsUsageError(err):
		return exitUsage
	case domain.IsDataError(err):
		return exitData
	default:
		return exitFailure
	}
}
