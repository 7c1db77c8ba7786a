package main

import (
	"os"

	"github.com/infoscreen/infoscreen/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
