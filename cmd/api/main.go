package main

import (
	"github.com/codetube-labs/codetube/app"
)

func main() {
	app.New(nil).Run()
}
