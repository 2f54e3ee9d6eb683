package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mymuse/adstudio/internal/config"
	"github.com/mymuse/adstudio/internal/generate"
	"github.com/mymuse/adstudio/internal/ingest"
	"github.com/mymuse/adstudio/internal/observability"
	"github.com/mymuse/adstudio/internal/pipeline"
	"github.com/mymuse/adstudio/internal/product"
	"github.com/mymuse/adstudio/internal/progress"
	"github.com/mymuse/adstudio/internal/prompt"
	"github.com/mymuse/adstudio/internal/reviews"
	"github.com/mymuse/adstudio/internal/store"
	"github.com/mymuse/adstudio/internal/transcribe"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "adstudio",
	Short: "Turn creator voice notes into brand-safe UGC ad scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		flagTUI = true
		return runGenerate(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("adstudio %s\n", Version)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one ad script plus variations from a transcript",
	RunE:  runGenerate,
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the product catalog with the claims each product supports",
	RunE:  runProducts,
}

var (
	flagInput     string
	flagProduct   string
	flagTone      string
	flagIntensity string
	flagCount     int
	flagStrict    bool
	flagVerbose   bool
	flagTUI       bool
	flagJSON      bool
	flagConfig    string
	flagSeed      int64
	flagAddr      string
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(serveCmd)

	generateCmd.Flags().StringVarP(&flagInput, "input", "i", "", "Transcript source: literal text, text file, URL, or audio file")
	generateCmd.Flags().StringVarP(&flagProduct, "product", "p", "", "Product ID (empty = auto-detect from transcript)")
	generateCmd.Flags().StringVarP(&flagTone, "tone", "n", "plain", "Creator voice: genz, plain")
	generateCmd.Flags().StringVar(&flagIntensity, "intensity", "pg13", "Content intensity: pg13, open")
	generateCmd.Flags().IntVarP(&flagCount, "count", "c", 0, "Number of variations (0 = configured default)")
	generateCmd.Flags().BoolVar(&flagStrict, "strict", false, "Only mention the requested product, never swap")
	generateCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable detailed logging instead of the progress bar")
	generateCmd.Flags().BoolVarP(&flagTUI, "tui", "t", false, "Interactive setup wizard for generation options")
	generateCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the full result set as JSON")
	generateCmd.Flags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	generateCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Seed for the deterministic local engine (0 = time-based)")

	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&flagConfig, "config", "", "Path to config YAML")
}

func Execute() error {
	return rootCmd.Execute()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if flagTUI {
		if err := runInteractiveSetup(); err != nil {
			return err
		}
	}

	if flagInput == "" {
		return fmt.Errorf("--input (-i) is required: a transcript, a text file, a URL, or an audio file")
	}
	validTones := map[string]bool{"genz": true, "plain": true}
	if !validTones[flagTone] {
		return fmt.Errorf("invalid tone %q: must be genz or plain", flagTone)
	}
	validIntensities := map[string]bool{"pg13": true, "open": true}
	if !validIntensities[flagIntensity] {
		return fmt.Errorf("invalid intensity %q: must be pg13 or open", flagIntensity)
	}
	if err := validateProductFlag(flagProduct); err != nil {
		return err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if flagVerbose {
		level = "debug"
	}
	logger := observability.InitLogger(level)

	ctx := cmd.Context()

	var tr transcribe.Transcriber
	if cfg.Whisper.APIKey != "" {
		tr = transcribe.NewWhisper(cfg.Whisper.APIKey, cfg.Whisper.BaseURL, cfg.Whisper.Model)
	}
	content, err := ingest.NewIngester(flagInput, tr).Ingest(ctx, flagInput)
	if err != nil {
		return err
	}

	orch, _, st, err := buildOrchestrator(cfg, logger, flagSeed)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	if !flagVerbose && !flagJSON {
		r := progress.NewBarRenderer(os.Stdout)
		defer r.Finish()
		orch.Progress = r.Handle
	}

	count := flagCount
	if count <= 0 {
		count = cfg.DefaultCount
	}
	req := prompt.Request{
		ProductID:         flagProduct,
		Transcript:        content.Text,
		Tone:              prompt.ToneMode(flagTone),
		Intensity:         prompt.Intensity(flagIntensity),
		StrictProductOnly: flagStrict,
		Count:             count,
	}

	set, err := orch.GenerateSet(ctx, req)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	}
	printSet(set)
	return nil
}

// validateProductFlag rejects unknown product ids before any work starts.
// Placeholder names from creator transcripts get a pointed message, since
// they look like products but must never appear in output.
func validateProductFlag(name string) error {
	if name == "" {
		return nil
	}
	if product.IsPlaceholder(name) {
		return fmt.Errorf("%q is a placeholder name from transcripts, not a real product: run `adstudio products` for the catalog", name)
	}
	if _, ok := product.Facts(name); !ok {
		return fmt.Errorf("unknown product %q: run `adstudio products` for the catalog", name)
	}
	return nil
}

// buildOrchestrator assembles the backend chain and collaborators from
// config. Remote backends are only wired when their keys are present; the
// local engine is always the terminal backend, so a bare environment
// still generates. The Meili client comes back separately so the serve
// command can route review imports into the same index searches hit.
func buildOrchestrator(cfg config.Config, logger *slog.Logger, seed int64) (*pipeline.Orchestrator, *reviews.Meili, *store.Store, error) {
	var backends []generate.Backend
	if cfg.Anthropic.APIKey != "" {
		backends = append(backends, generate.NewAnthropic(cfg.Anthropic.APIKey, cfg.Anthropic.Model))
	}
	if cfg.OpenAI.APIKey != "" {
		backends = append(backends, generate.NewOpenAICompat(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, "openai"))
	}
	if cfg.Groq.APIKey != "" {
		backends = append(backends, generate.NewOpenAICompat(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Groq.Model, "groq"))
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	backends = append(backends, generate.NewLocal(rand.New(rand.NewSource(seed))))

	memory := &reviews.MemoryIndex{}
	var searcher reviews.Searcher = memory
	var meili *reviews.Meili
	if cfg.Meili.Host != "" {
		m, err := reviews.NewMeili(cfg.Meili.Host, cfg.Meili.APIKey, cfg.Meili.Index, logger)
		if err != nil {
			logger.Warn("meilisearch unavailable, using in-memory review index", "error", err)
		} else {
			meili = m
			searcher = reviews.Fallback(m, memory)
		}
	}

	var st *store.Store
	if cfg.DBPath != "" && cfg.DBPath != "off" {
		var err error
		st, err = store.Open(cfg.DBPath, logger)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	return &pipeline.Orchestrator{
		Chain:   generate.NewChain(logger, backends...),
		Reviews: searcher,
		Store:   st,
		Logger:  logger,
	}, meili, st, nil
}

func printSet(set *pipeline.Set) {
	fmt.Printf("\nProduct: %s   Category: %s   Tone: %s\n",
		set.Request.ProductID, set.Category, set.Request.Tone)
	fmt.Printf("%s\n\n", strings.Repeat("─", 60))

	fmt.Printf("SCRIPT  [%d/100 %s]\n\n%s\n", set.Script.Eval.Score, passMark(set.Script.Eval.Pass), set.Script.Text)

	for i, v := range set.Variations {
		fmt.Printf("\n%s\n", strings.Repeat("─", 60))
		fmt.Printf("VARIATION %d  [%d/100 %s]\n\n%s\n", i+1, v.Eval.Score, passMark(v.Eval.Pass), v.Text)
	}

	fmt.Printf("\n%s\n%d/%d passing, top score %d, %d rewritten\n",
		strings.Repeat("─", 60),
		set.Summary.Passed, set.Summary.Total, set.Summary.TopScore, set.Summary.Rewritten)
}

func passMark(pass bool) string {
	if pass {
		return "pass"
	}
	return "needs work"
}

func runProducts(cmd *cobra.Command, args []string) error {
	fmt.Println("\nProduct catalog:")
	fmt.Printf("\n  %-16s %-8s %s\n", "ID", "MODES", "REAL FEATURES (only claim these)")
	fmt.Printf("  %s\n", strings.Repeat("─", 70))
	for _, id := range product.IDs() {
		f, _ := product.Facts(id)
		modes := "-"
		if f.SpeedModes > 0 {
			modes = fmt.Sprintf("%d", f.SpeedModes)
		}
		fmt.Printf("  %-16s %-8s %s\n", f.ID, modes, strings.Join(f.Features, ", "))
		if len(f.Banned) > 0 {
			fmt.Printf("  %-16s %-8s never: %s (say %q)\n", "", "", strings.Join(f.Banned, ", "), f.Replacement)
		}
	}
	fmt.Println()
	return nil
}
