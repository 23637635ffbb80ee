package cmd

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/arnavsurve/kaleidoscope/internal/compiler/precedence"
)

//go:embed templates/*
var tplFS embed.FS

// ConfigFile is the precedence table written by init.
const ConfigFile = "kal.yml"

// init: scaffold a new project
var InitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Scaffold a new Kaleidoscope project",
	Long: `Scaffold a new Kaleidoscope project.

Writes src/hello.kal, a .gitignore and kal.yml holding the active precedence
table (the built-in one unless --prec is given), ready to be edited.`,
	Args: cobra.MaximumNArgs(1),
	RunE: initRun,
}

func initRun(cmd *cobra.Command, args []string) error {
	var (
		targetDir string
		name      string
	)

	// targetDir is where files go, name is for templating
	if len(args) == 1 {
		targetDir = args[0]
		name = filepath.Base(args[0])
	} else {
		targetDir = "."
		cwd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "finding working directory")
		}
		name = filepath.Base(cwd)
	}

	tbl, err := loadTable()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "↪ scaffolding project %q in %s ...\n", name, targetDir)
	if err := scaffold(targetDir, name, tbl); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ project %q initialized!\n", name)
	return nil
}

// scaffold writes the starter files into targetDir. It refuses to overwrite
// any file it would create.
func scaffold(targetDir, name string, tbl *precedence.Table) error {
	cfgPath := filepath.Join(targetDir, ConfigFile)
	files := map[string]string{
		"templates/hello.kal.tpl": "src/hello.kal",
		"templates/gitignore.tpl": ".gitignore",
	}

	// Nothing is written if any file init would create is already there.
	existing := []string{cfgPath}
	for _, outName := range files {
		existing = append(existing, filepath.Join(targetDir, outName))
	}
	for _, path := range existing {
		if _, err := os.Stat(path); err == nil {
			return errors.Errorf("%s already exists", path)
		}
	}

	for _, dir := range []string{"src", "out"} {
		if err := os.MkdirAll(filepath.Join(targetDir, dir), 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}

	data := map[string]string{"Name": name}
	for tplPath, outName := range files {
		if err := writeTpl(tplPath, filepath.Join(targetDir, outName), data); err != nil {
			return err
		}
	}

	f, err := os.Create(cfgPath)
	if err != nil {
		return errors.Wrapf(err, "creating %s", cfgPath)
	}
	defer f.Close()
	return precedence.Write(f, tbl)
}

// writeTpl loads tplName from tplFS, executes it with data, and writes to outPath
func writeTpl(tplName, outPath string, data any) error {
	t, err := template.ParseFS(tplFS, tplName)
	if err != nil {
		return errors.Wrapf(err, "parsing %s", tplName)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "creating %s", outPath)
	}
	defer f.Close()

	return errors.Wrapf(t.Execute(f, data), "rendering %s", tplName)
}
