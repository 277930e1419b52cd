package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

type packageInfo struct {
	ImportPath string
	Imports    []string
}

func main() {
	cmd := exec.Command("go", "list", "-json", "./internal/...")
	cmd.Env = os.Environ()
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Stderr.Write(exitErr.Stderr)
		}
		fmt.Fprintf(os.Stderr, "depscheck: failed to list packages: %v\n", err)
		os.Exit(1)
	}

	decoder := json.NewDecoder(bytes.NewReader(output))

	var violations []string
	for {
		var pkg packageInfo
		if err := decoder.Decode(&pkg); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			fmt.Fprintf(os.Stderr, "depscheck: failed to decode package info: %v\n", err)
			os.Exit(1)
		}

		if !enginePackage(pkg.ImportPath) {
			continue
		}
		for _, imp := range pkg.Imports {
			if forbiddenImport(imp) {
				violations = append(violations, fmt.Sprintf("%s -> %s", pkg.ImportPath, imp))
			}
		}
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		fmt.Fprintln(os.Stderr, "depscheck: found forbidden imports:")
		for _, violation := range violations {
			fmt.Fprintf(os.Stderr, "  %s\n", violation)
		}
		os.Exit(1)
	}
}

// enginePackage reports whether the package belongs to the pure engine
// layer, which must stay free of transport and hub dependencies so replay
// stays deterministic and embeddable.
func enginePackage(path string) bool {
	for _, prefix := range []string{
		"jigsaw-party/server/internal/rng",
		"jigsaw-party/server/internal/puzzle",
		"jigsaw-party/server/internal/game",
		"jigsaw-party/server/internal/gamelog",
	} {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func forbiddenImport(imp string) bool {
	if imp == "jigsaw-party/server" {
		return true
	}
	return strings.HasPrefix(imp, "jigsaw-party/server/internal/net")
}
