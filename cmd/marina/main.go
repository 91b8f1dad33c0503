// Command marina manages a marina's berth inventory.
package main

import "github.com/mesh-intelligence/berths/internal/cli"

func main() {
	cli.Execute()
}
