package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"farejo/internal/config"
	"farejo/internal/db"
	"farejo/internal/middleware"
	"farejo/internal/router"
	"farejo/internal/services"
	"farejo/internal/store"
	"farejo/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "farejo",
	Short: "Farejo - classificados de cães perdidos e encontrados",
	Long: `Farejo serves the lost/found dog classifieds site and its JSON API.

Run without arguments to start the web server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var foundEnv bool
		cfg, foundEnv = config.Load()
		utils.ConfigureLogger(cfg.LogLevel, nil)
		if !foundEnv {
			utils.LogInfo("No .env file found, reading configuration from the environment")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo listings into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		n, err := st.Seed(cmd.Context(), store.DemoListings())
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "store is not empty, nothing seeded")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d listings\n", n)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the persisted listings and reports as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(st.Snapshot())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd, exportCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// openStore builds the configured backend and loads the snapshot. A corrupt
// snapshot is returned as an error so the process does not start on bad data.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	var backend store.Backend
	switch cfg.StoreDriver {
	case "file":
		backend = store.NewFileBackend(cfg.DataFile)
	case "postgres":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		backend = store.NewPostgresBackend(conn)
	case "memory":
		backend = store.NewMemoryBackend(nil)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (file, postgres or memory)", cfg.StoreDriver)
	}

	st := store.New(backend)
	if err := st.Load(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func runServe(ctx context.Context) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		utils.LogError(err, "failed to open listing store")
		return err
	}
	if cfg.SeedDemo {
		if n, err := st.Seed(ctx, store.DemoListings()); err != nil {
			utils.LogError(err, "failed to seed demo listings")
		} else if n > 0 {
			utils.LogInfo(fmt.Sprintf("Seeded %d demo listings", n))
		}
	}

	var geocoder services.Geocoder = services.NoopGeocoder{}
	if cfg.GeocoderURL != "" {
		geocoder = services.NewNominatimGeocoder(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.GeocoderCountry)
	}

	var generator services.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			utils.LogError(err, "Gemini disabled, falling back to template descriptions")
		} else {
			generator = gemini
		}
	}

	mail := services.NewMailService(services.MailConfig{
		Host:         cfg.SMTPHost,
		Port:         cfg.SMTPPort,
		Username:     cfg.SMTPUser,
		Password:     cfg.SMTPPass,
		From:         cfg.SMTPFrom,
		TemplatesDir: cfg.TemplatesDir,
	})

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	// Setup Sessions
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{Path: "/", MaxAge: 86400, HttpOnly: true})
	r.Use(sessions.Sessions("farejo_session", sessionStore))
	r.Use(middleware.LoadNotice())

	r.HTMLRender = loadTemplates(cfg.TemplatesDir)
	r.Static("/static", cfg.StaticDir)

	router.RegisterRoutes(r, router.Deps{
		Store:    st,
		Geocoder: geocoder,
		LLM:      services.NewLLMService(generator),
		Mail:     mail,
		Images:   services.NewImageService(cfg.ImgurClientID),
		SiteURL:  cfg.SiteURL,
	})

	utils.LogInfo(fmt.Sprintf("Farejo server starting on :%s (store: %s)", cfg.Port, cfg.StoreDriver))
	return r.Run(":" + cfg.Port)
}
