package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/GriffinCanCode/prestashop"
	"github.com/GriffinCanCode/prestashop/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// globals holds the persistent flags
type globals struct {
	envFile  string
	config   string
	shopURL  string
	endpoint string
	token    string
	shopID   int
	verbose  bool
}

func (g *globals) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&g.envFile, "env-file", ".env", "Environment file loaded before reading PRESTASHOP_* variables")
	f.StringVarP(&g.config, "config", "c", "", "YAML or TOML configuration file")
	f.StringVar(&g.shopURL, "shop-url", "", "Shop base URL (overrides PRESTASHOP_SHOP_URL)")
	f.StringVar(&g.endpoint, "endpoint", "", "Web service path (overrides PRESTASHOP_ENDPOINT)")
	f.StringVar(&g.token, "token", "", "Web service key (overrides PRESTASHOP_TOKEN)")
	f.IntVar(&g.shopID, "shop-id", 0, "Shop ID for multistore installs")
	f.BoolVarP(&g.verbose, "verbose", "v", false, "Log every web service call")
}

// client builds a client from the environment, config file and flags
func (g *globals) client() (*prestashop.Client, error) {
	if g.envFile != "" {
		if err := godotenv.Load(g.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", g.envFile, err)
		}
	}

	cfg := prestashop.LoadConfig()
	if g.config != "" {
		var err error
		if cfg, err = prestashop.LoadConfigFile(g.config); err != nil {
			return nil, err
		}
	}

	if g.shopURL != "" {
		cfg.Shop.URL = g.shopURL
	}
	if g.endpoint != "" {
		cfg.Shop.Path = g.endpoint
	}
	if g.token != "" {
		cfg.Shop.Token = g.token
	}
	if g.shopID != 0 {
		cfg.Shop.ShopID = g.shopID
	}

	logger := logging.NewNop()
	if g.verbose {
		logger = logging.NewDevelopment()
	}
	return prestashop.New(cfg, prestashop.WithLogger(logger))
}
