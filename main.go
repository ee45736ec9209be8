package main

import (
	"os"

	"github.com/fatali-fataliyev/club_treasury/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
