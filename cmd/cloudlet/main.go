// Cloudlet CLI — инструмент командной строки для облачных сервисов.
//
// Использование:
//
//	cloudlet [--profile NAME] [--endpoint URL] [--region REGION]
//	         [--transport http|amqp] [--json] [--debug]
//	         <service> <kind> <action> [flags]
//
// Сервисы:
//
//	auditmanager    controls, assessments
//	mediapipelines  media pipelines
//	wisdom          knowledge bases
//	kms             keys
package main

import (
	"fmt"
	"os"

	"github.com/shaiso/Cloudlet/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	rootCmd, err := cli.NewRootCmd(version)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
