// cubetoe - twisty puzzle tic-tac-toe with a local game history.
package main

import (
	"github.com/SeamusWaldron/cubetoe/internal/cli"
)

func main() {
	cli.Execute()
}
