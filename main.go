package main

import (
	"os"

	"github.com/MichaelGalloway404/BooksRead/app"
)

func main() {
	os.Exit(app.CLI(os.Args[1:]))
}
