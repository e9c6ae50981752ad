package main

import (
	"fmt"
	"os"

	"github.com/DhavalSuthar-24/dugout/cmd"
	_ "github.com/DhavalSuthar-24/dugout/docs"
)

// @title Dugout REST API
// @version 1.0
// @description Rosters, schedules, training, meal plans, messaging and player profiles for a baseball or softball program.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
