package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"zettaboard/app/config"
	"zettaboard/app/repositories"
)

func openStore(cfg config.Storage) (*repositories.Store, error) {
	if cfg.InMemory {
		return repositories.NewStore("")
	}
	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return repositories.NewStore(cfg.Path)
}

// backupDir sits next to the database directory.
func backupDir(dbPath string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(dbPath)), "backups")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// confirm asks a yes/no question on in. Anything but y/Y is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}
