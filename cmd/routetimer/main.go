// Command routetimer times the routes of regular trips and reports per-route
// statistics.
package main

import "github.com/mesh-intelligence/routetimer/internal/cli"

func main() {
	cli.Execute()
}
