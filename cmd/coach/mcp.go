package main

import (
	"github.com/spf13/cobra"

	"github.com/Thibisault/Intimacy-Coach/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve plan building, draws and history as MCP tools over stdio",
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(_ *cobra.Command, _ []string) error {
	d, err := setup(false)
	if err != nil {
		return err
	}
	defer d.Close()

	deps := mcpserver.Deps{Planner: d.ctrl}
	if d.store != nil {
		deps.History = d.store
	}
	d.log.Info("mcp server starting", "version", version)
	return mcpserver.New("intimacy-coach", version, deps).ServeStdio()
}
