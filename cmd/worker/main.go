package main

import (
	"github.com/funtech-labs/orders-backend/internal/app/workerapp"
	"github.com/funtech-labs/orders-backend/internal/config"
)

func main() {
	config.MustInit()
	workerapp.MustNewApp().Run()
}
