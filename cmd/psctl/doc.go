// Command psctl queries a PrestaShop web service from the shell.
//
// Settings come from PRESTASHOP_* variables, a .env file in the working
// directory, an optional YAML/TOML file (--config) and finally flags.
//
// Usage:
//
//	psctl resources
//	psctl get products --where active=1 --display id,name --sort -date_upd --limit 10
//	psctl find orders 42
//	psctl schema products --name blank
//	psctl delete carts 17
package main
