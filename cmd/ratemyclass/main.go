package main

import (
	"ratemyclass/cmd/ratemyclass/commands"
	"ratemyclass/pkg/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
