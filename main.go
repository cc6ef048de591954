// The main package for the winemaker-crawler executable.
package main

import (
	"github.com/terrovin/winemaker-crawler/cmd"
)

func main() {
	cmd.Execute()
}
