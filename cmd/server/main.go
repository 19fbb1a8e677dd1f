package main

import (
	"github.com/eleven-am/lingualens/internal/bootstrap"
	"github.com/joho/godotenv"
)

// @title Lingualens API
// @version 1.0.0
// @description Vision and speech proxy for the lingualens client

// @host localhost:5000
// @BasePath /

func main() {
	_ = godotenv.Load()
	bootstrap.Run()
}
