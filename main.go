package main

import (
	"github.com/satyajeet03/rentApp/startup"
	cfg "github.com/satyajeet03/rentApp/startup/config"
)

func main() {
	config := cfg.NewConfig()
	server := startup.NewServer(config)
	server.Start()
}
