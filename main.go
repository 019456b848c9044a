// Package main is the entry point of the affiliate attribution service
package main

import "github.com/amirphl/affiliate-rhonat/cmd"

// @title Affiliate Attribution API
// @version 1.0
// @description Click to sale attribution: tracked redirects, sale recording and affiliate reporting.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cmd.Execute()
}
