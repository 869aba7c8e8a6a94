package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	httpadapter "github.com/sporto/kic/internal/app/core/adapter/in/http"
	memoryadapter "github.com/sporto/kic/internal/app/core/adapter/out/memory"
	mysqladapter "github.com/sporto/kic/internal/app/core/adapter/out/mysql"
	"github.com/sporto/kic/internal/app/core/adapter/out/webhook"
	"github.com/sporto/kic/internal/app/core/domain"
	"github.com/sporto/kic/internal/app/core/usecase"
	"github.com/sporto/kic/pkg/journal"
	"github.com/sporto/kic/pkg/logger"
	"github.com/sporto/kic/pkg/mysql"
)

const defaultConfigPath = "config/config.yaml"

// Config 應用配置，來源為 yaml 設定檔，缺省欄位於載入後補全
type Config struct {
	// Store: "mysql" 或 "memory"
	Store string `yaml:"store"`

	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	MySQL mysql.Config `yaml:"mysql"`

	Journal struct {
		Path string `yaml:"path"`
	} `yaml:"journal"`

	Interest struct {
		// AnnualRate 年利率，十進位字串，例如 "0.05" 表示 5%
		AnnualRate string `yaml:"annual_rate"`
	} `yaml:"interest"`

	Notify struct {
		WebhookURL string        `yaml:"webhook_url"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"notify"`

	Log logger.Config `yaml:"log"`

	// Seed 開發模式 (memory store) 的種子資料
	Seed struct {
		Users    []SeedUser    `yaml:"users"`
		Accounts []SeedAccount `yaml:"accounts"`
	} `yaml:"seed"`
}

// SeedUser 種子使用者
type SeedUser struct {
	ID       int64  `yaml:"id"`
	ClientID int64  `yaml:"client_id"`
	Role     string `yaml:"role"` // "admin" | "investor"
}

// SeedAccount 種子帳戶
type SeedAccount struct {
	ID     int64 `yaml:"id"`
	UserID int64 `yaml:"user_id"`
}

func main() {
	// .env 沒有也沒關係，僅作為本機開發的環境變數補充
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zlog.Sync()

	annualRate, err := decimal.NewFromString(cfg.Interest.AnnualRate)
	if err != nil {
		zlog.Fatal("invalid interest annual_rate", zap.String("annual_rate", cfg.Interest.AnnualRate), zap.Error(err))
	}

	// 依設定選擇持久層
	var (
		store     usecase.Store
		directory usecase.Directory
	)
	switch cfg.Store {
	case "mysql":
		dbClient, err := mysql.NewClient(cfg.MySQL, zlog)
		if err != nil {
			zlog.Fatal("failed to connect to mysql", zap.Error(err))
		}
		defer dbClient.Close()
		if err := mysqladapter.AutoMigrate(dbClient.DB()); err != nil {
			zlog.Fatal("failed to migrate schema", zap.Error(err))
		}
		store = mysqladapter.NewStore(dbClient)
		directory = mysqladapter.NewDirectory(dbClient)
		zlog.Info("using mysql store", zap.String("host", cfg.MySQL.Host))

	case "memory":
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			zlog.Fatal("failed to open journal", zap.String("path", cfg.Journal.Path), zap.Error(err))
		}
		defer j.Close()
		memStore, err := memoryadapter.NewStore(j)
		if err != nil {
			zlog.Fatal("failed to recover from journal", zap.Error(err))
		}
		store = memStore
		directory = memoryadapter.NewDirectory(seedUsers(cfg), seedAccounts(cfg))
		zlog.Info("using memory store", zap.String("journal", cfg.Journal.Path))

	default:
		zlog.Fatal("invalid store type", zap.String("store", cfg.Store))
	}

	// 通知派送: 未設定 URL 時使用 Nop
	var notifier usecase.Notifier = webhook.NopNotifier{}
	if cfg.Notify.WebhookURL != "" {
		notifier = webhook.NewNotifier(cfg.Notify.WebhookURL, cfg.Notify.Timeout)
	}

	core := usecase.NewCoreUseCase(store, directory, notifier, usecase.SystemClock{}, annualRate, zlog)
	app := httpadapter.NewApp(core, directory)

	// Graceful Shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		zlog.Info("starting http server", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			zlog.Fatal("http server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		zlog.Error("shutdown error", zap.Error(err))
	}
	zlog.Info("server exited")
}

func loadConfig() (Config, error) {
	path := os.Getenv("KIC_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	// 補全預設值
	cfg.MySQL.ApplyDefaults()
	if cfg.Store == "" {
		cfg.Store = "mysql"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = "ledger.journal"
	}
	if cfg.Interest.AnnualRate == "" {
		cfg.Interest.AnnualRate = "0"
	}
	if cfg.Notify.Timeout == 0 {
		cfg.Notify.Timeout = 5 * time.Second
	}
	return cfg, nil
}

func seedUsers(cfg Config) []domain.User {
	users := make([]domain.User, 0, len(cfg.Seed.Users))
	for _, u := range cfg.Seed.Users {
		role := domain.RoleInvestor
		if u.Role == "admin" {
			role = domain.RoleAdmin
		}
		users = append(users, domain.User{ID: u.ID, ClientID: u.ClientID, Role: role})
	}
	return users
}

func seedAccounts(cfg Config) []domain.Account {
	now := time.Now()
	accounts := make([]domain.Account, 0, len(cfg.Seed.Accounts))
	for _, a := range cfg.Seed.Accounts {
		accounts = append(accounts, domain.Account{ID: a.ID, UserID: a.UserID, CreatedAt: now})
	}
	return accounts
}
