package main

import (
	"os"

	"github.com/weatherdesk/weatherdesk/internal/client/cli"
)

func main() {
	os.Exit(cli.Main())
}
