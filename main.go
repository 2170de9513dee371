// Command brambling inspects and serves event registration workflows.
//
// Configuration is read from config/config.yaml, the user config directory
// or the file named by BRAMBLING_CONFIG_PATH. See internal/config.
package main

import "brambling/internal/cli"

func main() {
	cli.Execute()
}
