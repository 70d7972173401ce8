package main

import (
	"context"

	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/cmd/catalogctl/commands"
	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)
	commands.ExecuteContext(context.Background())
}
