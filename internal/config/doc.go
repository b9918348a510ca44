// Package config provides 12-factor configuration for the PrestaShop client.
//
// Configuration is loaded from environment variables with sensible defaults.
// A YAML or TOML file can be layered on top with LoadFile.
//
// Configuration Sections:
//   - Shop: base URL, web service path, key and shop ID
//   - HTTP: timeout, retries, rate limit, TLS verification
//   - Logging: log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	conn := webservice.New(transport).Configure(cfg.Shop.URL, cfg.Shop.Path, cfg.Shop.Token, cfg.Shop.ShopID)
//
// Environment Variables:
//   - PRESTASHOP_SHOP_URL, PRESTASHOP_ENDPOINT, PRESTASHOP_TOKEN, PRESTASHOP_SHOP_ID
//   - PRESTASHOP_TIMEOUT, PRESTASHOP_RETRY_MAX, PRESTASHOP_RATE_LIMIT, PRESTASHOP_INSECURE
//   - PRESTASHOP_LOG_LEVEL, PRESTASHOP_LOG_DEV
//
// File format (YAML shown, TOML uses the same keys):
//
//	shop:
//	  url: https://shop.example
//	  endpoint: /api
//	  token: ABCDEF
//	http:
//	  timeout: 10s
package config
