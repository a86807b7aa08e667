package main

import (
	"github.com/funtech-labs/orders-backend/internal/app"
	"github.com/funtech-labs/orders-backend/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
