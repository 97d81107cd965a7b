//go:build tinygo && baremetal

package main

import (
	"joypanel/app"
	"joypanel/hal"
)

func main() {
	app.Run(hal.New())
}
