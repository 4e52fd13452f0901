package main

import (
	"os"

	"github.com/weatherdesk/weatherdesk/internal/server"
)

func main() {
	os.Exit(server.Main())
}
