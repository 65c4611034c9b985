// Command sportscom runs the SportsCom chatbot.
package main

import "github.com/custodia-labs/sportscom/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
