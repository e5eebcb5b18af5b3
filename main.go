package main

import (
	"os"

	"github.com/usermgmt-go/usermgmt/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
