package main

import (
	"os"

	"github.com/NiceSpeak/nicespeak-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
