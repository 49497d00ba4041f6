package main

import "github.com/killallgit/rgain-analyzer/cmd"

// @title           Replay Gain Analyzer API
// @version         1.0.0
// @description     Runs an external replay gain tool on audio files and records the results
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/rgain-analyzer
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
