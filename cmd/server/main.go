package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/internal/api"
	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/configutil"
	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/scrapers/hackmd"
	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/serviceutil"
	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/services/catalog"
	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/services/catalog/db"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HttpConfig struct {
	Addr string `json:"addr"`
}

type MongoConfig struct {
	Url      string `json:"url"`
	Database string `json:"database"`
}

type PortalConfig struct {
	BaseUrl                  string `json:"base_url"`
	NavigationTimeoutSeconds int    `json:"navigation_timeout_seconds"`
	DetailTimeoutSeconds     int    `json:"detail_timeout_seconds"`
}

type WhatsappDocConfig struct {
	Url string `json:"url"`
}

type Config struct {
	Http        HttpConfig        `json:"http"`
	Mongo       MongoConfig       `json:"mongo"`
	Portal      PortalConfig      `json:"portal"`
	WhatsappDoc WhatsappDocConfig `json:"whatsapp_doc"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	initialScrape := flag.Bool("scrape", false, "Trigger scraping immediately on run.")
	flag.Parse()

	// .env carries MONGODB_URL and optionally MATRICULA/SENHA
	godotenv.Load()

	ctx := serviceutil.SignalContext()
	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	mongoUrl := cfg.Mongo.Url
	if env := os.Getenv("MONGODB_URL"); env != "" {
		mongoUrl = env
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoUrl))
	if err != nil {
		serviceutil.Fatal("connect to mongodb", err)
	}
	defer client.Disconnect(context.Background())

	database := client.Database(cfg.Mongo.Database)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		serviceutil.Fatal("ensure indexes", err)
	}
	slog.Info("mongodb connected", "database", cfg.Mongo.Database)

	disciplines := db.NewDisciplineStore(database)
	teachers := db.NewTeacherStore(database)
	students := db.NewStudentStore(database)

	service := catalog.NewService(
		disciplines,
		teachers,
		students,
		hackmd.NewClient(cfg.WhatsappDoc.Url),
		catalog.PortalOptions{
			BaseUrl:           cfg.Portal.BaseUrl,
			NavigationTimeout: time.Duration(cfg.Portal.NavigationTimeoutSeconds) * time.Second,
			DetailTimeout:     time.Duration(cfg.Portal.DetailTimeoutSeconds) * time.Second,
		},
	)

	if *initialScrape {
		creds := catalog.Credentials{
			Matricula: os.Getenv("MATRICULA"),
			Senha:     os.Getenv("SENHA"),
		}
		if creds.Matricula == "" || creds.Senha == "" {
			slog.Warn("initial scrape requested but MATRICULA/SENHA are not set")
		} else if _, err := service.StartDisciplineScrape(creds); err != nil {
			slog.Error("failed to start initial scrape", "err", err)
		}
	}

	if !*verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Server{
		Catalog:     service,
		Disciplines: disciplines,
		Teachers:    teachers,
	})

	addr := cfg.Http.Addr
	if addr == "" {
		addr = ":3000"
	}
	slog.Info("listening...", "addr", addr)
	if err := router.Run(addr); err != nil {
		serviceutil.Fatal("http server", err)
	}
}
