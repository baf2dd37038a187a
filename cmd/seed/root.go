package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/angelmondragon/foodbridge-backend/internal/app"
	"github.com/angelmondragon/foodbridge-backend/internal/donors"
	"github.com/angelmondragon/foodbridge-backend/internal/seed"
	"github.com/angelmondragon/foodbridge-backend/pkg/config"
	"github.com/angelmondragon/foodbridge-backend/pkg/db"
	"github.com/angelmondragon/foodbridge-backend/pkg/logger"
	"github.com/angelmondragon/foodbridge-backend/pkg/migrate"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "foodbridge-seed",
	Short: "Fills the database with demo donors and donations",
	Long: `foodbridge-seed creates fake donor profiles and submits random donations for them
through the regular intake flow, so donor tiers, pickups and impact data look realistic.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./foodbridge-seed.yaml)")

	rootCmd.Flags().Int("donors", 10, "Number of donors to create")
	rootCmd.Flags().Int("donations", 5, "Donations submitted per donor")
	rootCmd.Flags().Int64("seed", 42, "Random seed; 0 uses the clock")
	rootCmd.Flags().Bool("migrate", false, "Apply migrations before seeding")

	_ = viper.BindPFlags(rootCmd.Flags())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("foodbridge-seed")
	}

	viper.SetEnvPrefix("FOODBRIDGE_SEED")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logg := logger.New(logger.Options{ServiceName: "seed"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Service.Kind = "seed"

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if viper.GetBool("migrate") {
		sqlDB, err := dbClient.DB().DB()
		if err != nil {
			return fmt.Errorf("unwrap sql db: %w", err)
		}
		if err := migrate.Up(ctx, sqlDB, dbClient.Dialect()); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	} else if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("dev migrations: %w", err)
	}

	services, err := app.BuildServices(cfg, logg, dbClient, nil)
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}

	seeder, err := seed.New(seed.Params{
		Donors:    donors.NewRepository(dbClient.DB()),
		Donations: services.Donations,
		Logger:    logg,
		Seed:      viper.GetInt64("seed"),
	})
	if err != nil {
		return err
	}

	summary, err := seeder.Run(ctx, viper.GetInt("donors"), viper.GetInt("donations"))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "seeded %d donors: %d donations accepted (%d routed), %d rejected\n",
		summary.Donors, summary.Accepted, summary.Routed, summary.Rejected)
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
