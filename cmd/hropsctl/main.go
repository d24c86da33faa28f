package main

import (
	"fmt"
	"os"

	"github.com/jacksonlee411/hrops/pkg/composer"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	a := newApp(composer.SystemClipboard{})
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
