package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/fetch"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/resume"
	"github.com/jonathan/interview-coach/internal/server"
	"github.com/jonathan/interview-coach/internal/server/ratelimit"
	"github.com/jonathan/interview-coach/internal/store"
	"github.com/jonathan/interview-coach/internal/store/memory"
	"github.com/spf13/cobra"
)

var (
	serveConfigPath    string
	servePort          int
	serveDatabaseURL   string
	serveAPIKey        string
	serveUploadDir     string
	serveQuestionCount int
	serveMemory        bool
	serveBrowser       bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the interview, resume, report and progress endpoints.

Configuration is layered: flags override environment variables, which override
the --config file, which overrides built-in defaults.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API key for generated questions (defaults to GEMINI_API_KEY env var)")
	serveCmd.Flags().StringVar(&serveUploadDir, "upload-dir", "", "Directory for uploaded resumes (default ./uploads)")
	serveCmd.Flags().IntVar(&serveQuestionCount, "questions", 0, "Questions per interview (default 5)")
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "Use the in-memory store instead of PostgreSQL")
	serveCmd.Flags().BoolVar(&serveBrowser, "browser", false, "Render job posting URLs with headless Chrome when static HTML has too little text")
	rootCmd.AddCommand(serveCmd)
}

// resolveServeConfig layers flags, environment, config file and defaults.
func resolveServeConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = servePort
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	if flags.Changed("api-key") {
		cfg.APIKey = serveAPIKey
	}
	if flags.Changed("upload-dir") {
		cfg.UploadDir = serveUploadDir
	}
	if flags.Changed("questions") {
		cfg.QuestionCount = serveQuestionCount
	}
	cfg.UseMemory = serveMemory
	cfg.UseBrowser = serveBrowser

	cfg = cfg.MergeWithDefaults(config.FromEnv())

	if serveConfigPath != "" {
		fileCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		if err := fileCfg.Validate(); err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if !cfg.UseMemory && cfg.DatabaseURL == "" {
		return config.Config{}, fmt.Errorf("DATABASE_URL is required unless --memory is set")
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.UseMemory {
		log.Println("[serve] using in-memory store; data is lost on exit")
		return memory.New(), nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return database, nil
}

// questionGenerator returns the Gemini generator when an API key is set,
// falling back to templates otherwise.
func questionGenerator(ctx context.Context, apiKey string) (questions.Generator, func(), error) {
	templates, err := questions.NewTemplateGenerator()
	if err != nil {
		return nil, nil, err
	}
	if apiKey == "" {
		return templates, func() {}, nil
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Printf("[serve] failed to close LLM client: %v", err)
		}
	}
	return questions.NewLLMGenerator(client, templates), closeFn, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveServeConfig(cmd)
	if err != nil {
		return err
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	files, err := resume.NewLocalFileStore(cfg.UploadDir, cfg.UploadURLPrefix)
	if err != nil {
		return err
	}

	gen, closeGen, err := questionGenerator(ctx, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create question generator: %w", err)
	}
	defer closeGen()

	srv, err := server.New(server.Options{
		Port:          cfg.Port,
		Store:         st,
		Questions:     gen,
		Postings:      ingestion.NewPostingFetcher(fetch.DefaultOptions(), cfg.UseBrowser),
		Files:         files,
		UploadDir:     cfg.UploadDir,
		QuestionCount: cfg.QuestionCount,
		JWT:           jwtConfig,
		Password:      passwordConfig,
		RateLimit:     ratelimit.LoadConfig(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
