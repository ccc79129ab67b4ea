// Package main はprimecipher CLIのエントリポイント。
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"prime-cipher/config"
	"prime-cipher/internal/domain"
	"prime-cipher/internal/infra"
	"prime-cipher/internal/repository"
	"prime-cipher/internal/usecase"
)

const version = "1.0.0"

const (
	generateArg = "g"

	// 鍵生成時の素数の探索範囲 [primeSearchMin, primeSearchMax)
	primeSearchMin = 10000
	primeSearchMax = 20000
)

// app はコマンド間で共有する設定と後始末を保持する。
type app struct {
	cfg      *config.Config
	output   string
	shutdown infra.ShutdownFunc
}

func main() {
	ctx := context.Background()
	a := &app{}

	err := newRootCmd(a).ExecuteContext(ctx)
	a.close(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "primecipher [g]",
		Short:             "Toy RSA key generation and per-code-point cipher demo",
		Long:              "Runs the cipher demo with a fixed key pair, or with a freshly generated one when the first argument is \"g\".",
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runDemo,
	}

	rootCmd.PersistentFlags().StringVar(&a.output, "output", outputText, "Output format: text, json")

	rootCmd.AddCommand(keysCmd(a))
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

// setup は .env と環境変数を読み込み、トレーサーとロガーを初期化する。
func (a *app) setup(cmd *cobra.Command, args []string) error {
	// .envファイルが無い場合は無視する。既存の環境変数は上書きしない
	_ = godotenv.Load()
	a.cfg = config.Load()

	if a.output != outputText && a.output != outputJSON {
		return fmt.Errorf("unsupported output format %q", a.output)
	}

	// トレーサーはロガーより先に初期化する
	shutdown, err := infra.InitTracer(cmd.Context(), a.cfg)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	a.shutdown = shutdown

	infra.SetupLogger(os.Stderr, a.cfg)
	return nil
}

func (a *app) close(ctx context.Context) {
	if a.shutdown == nil {
		return
	}
	if err := a.shutdown(ctx); err != nil {
		slog.Error("failed to shutdown tracer", "error", err)
	}
}

// runDemo は鍵ペアを選び（"g" なら生成）、往復のデモを出力して素数キャッシュを保存する。
func (a *app) runDemo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	primesRepo := repository.NewPrimeFileRepository(a.cfg.PrimesPath)
	primes, err := primesRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading primes: %w", err)
	}

	pair := domain.DemoKeyPair()
	if len(args) > 0 && args[0] == generateArg {
		generator := usecase.NewKeyGenerator(primes, usecase.GlobalRandom())
		generated, err := generator.GenerateKeys(ctx, primeSearchMin, primeSearchMax)
		if err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}
		pair = *generated

		if a.cfg.DatabaseURL != "" {
			if err := a.storeKeyPair(ctx, &pair); err != nil {
				return err
			}
		}
	}

	if err := printDemo(cmd.OutOrStdout(), pair, a.output); err != nil {
		return err
	}

	if err := primesRepo.Save(ctx, primes); err != nil {
		return fmt.Errorf("saving primes: %w", err)
	}
	return nil
}

func (a *app) storeKeyPair(ctx context.Context, pair *domain.KeyPair) error {
	return a.withKeyService(ctx, func(svc *usecase.KeyService) error {
		metadata, err := svc.SaveKeyPair(ctx, pair, primeSearchMin, primeSearchMax)
		if err != nil {
			infra.WriteAuditLog(ctx, "save_key_pair", "", infra.AuditFailure)
			return fmt.Errorf("saving key pair: %w", err)
		}
		infra.WriteAuditLog(ctx, "save_key_pair", metadata.ID, infra.AuditSuccess)
		return nil
	})
}

// withKeyService はDBとSealerを用意してKeyServiceを fn に渡し、終了後に後始末する。
func (a *app) withKeyService(ctx context.Context, fn func(svc *usecase.KeyService) error) error {
	if a.cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	db, err := infra.NewDB(a.cfg.DatabaseURL, a.cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer sqlDB.Close()

	if err := repository.AutoMigrate(ctx, db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	sealer, err := infra.NewSealer(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("initializing sealer: %w", err)
	}
	defer func() {
		if err := sealer.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close sealer", "error", err)
		}
	}()

	return fn(usecase.NewKeyService(repository.NewKeyRepository(db), sealer))
}

// versionCmd はバージョン情報を表示する。
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "primecipher version %s\n", version)
		},
	}
}
