package main

import (
	"log"

	"github.com/boutproject/boutpkg/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
