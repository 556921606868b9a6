package check

import (
	"fmt"
	"os"

	"github.com/tinyland-inc/bridgeclaw/pkg/binding"
	"github.com/tinyland-inc/bridgeclaw/pkg/config"
)

func checkCmd(path string) error {
	table, err := config.LoadBindings(path)
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s: %d channel binding(s) OK\n", path, table.Len())
	return nil
}

func initCmd(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", path)
	}
	template := []binding.Binding{
		{Guilded: "guilded-channel-uuid", Discord: "discord-channel-id"},
	}
	if err := config.SaveBindings(path, template); err != nil {
		return err
	}
	fmt.Printf("✓ Wrote template binding file to %s\n", path)
	return nil
}
