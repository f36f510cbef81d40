package main

import "github.com/houseofabhilasha/storefront/cmd"

func main() {
	cmd.Execute()
}
