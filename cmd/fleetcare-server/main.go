package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/autopeer-io/fleetcare/cmd/fleetcare-server/app"
)

func main() {
	app.NewApp().Run()
}
