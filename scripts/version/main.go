// Command version bumps internal.Version, tags the release and pushes it.
//
//	go run ./scripts/version 1.2.0
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	constants "github.com/ImGajeed76/fortdoc/internal"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/console"
)

const versionFile = "internal/constants.go"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Theme.ErrorColor))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Theme.WarningColor))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Theme.PrimaryColor))

	semverRe   = regexp.MustCompile(`^v\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?$`)
	versionVar = regexp.MustCompile(`(?m)^var Version = ".*"$`)
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./scripts/version <version>")
		fmt.Println()
		fmt.Println("  go run ./scripts/version 1.0.0")
		fmt.Println("  go run ./scripts/version v2.1.3")
		os.Exit(1)
	}

	version := os.Args[1]
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semverRe.MatchString(version) {
		fail("Invalid version format. Use v1.0.0 or 1.0.0", nil)
	}

	fmt.Println(infoStyle.Render(fmt.Sprintf("Releasing %s (currently %s):", version, constants.Version)))
	fmt.Println("  1. Update " + versionFile)
	fmt.Println("  2. Commit the change")
	fmt.Println("  3. Create tag " + version)
	fmt.Println("  4. Push to remote")
	fmt.Println()

	if !ask("Continue?") {
		fmt.Println(warningStyle.Render("Aborted"))
		return
	}
	if dirty() {
		fail("You have uncommitted changes. Commit or stash them first.", nil)
	}

	step("Updating "+versionFile, updateVersionFile(version))
	step("Committing", git("add", versionFile), git("commit", "-m", "chore: bump version to "+version))
	step("Tagging "+version, git("tag", "-a", version, "-m", "Release "+version))

	if !ask("Push to remote?") {
		fmt.Println(warningStyle.Render("Skipped push. Push manually with:"))
		fmt.Println("  git push origin HEAD")
		fmt.Println("  git push origin " + version)
		return
	}
	step("Pushing", git("push", "origin", "HEAD"), git("push", "origin", version))

	fmt.Println()
	fmt.Println(successStyle.Render("Released " + version))
	fmt.Println(infoStyle.Render("Install with: go install github.com/ImGajeed76/fortdoc/cmd/fortdoc@" + version))
}

// updateVersionFile rewrites the Version line and leaves the rest alone.
func updateVersionFile(version string) func() error {
	return func() error {
		data, err := os.ReadFile(versionFile)
		if err != nil {
			return err
		}
		if !versionVar.Match(data) {
			return errors.New("no Version variable in " + versionFile)
		}
		// the Go version has no leading v
		updated := versionVar.ReplaceAll(data, []byte(fmt.Sprintf("var Version = %q", strings.TrimPrefix(version, "v"))))
		return os.WriteFile(versionFile, updated, 0644)
	}
}

func git(args ...string) func() error {
	return func() error {
		cmd := exec.Command("git", args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}
}

func dirty() bool {
	out, err := exec.Command("git", "status", "--porcelain").Output()
	return err == nil && len(strings.TrimSpace(string(out))) > 0
}

func step(name string, actions ...func() error) {
	fmt.Println(infoStyle.Render(name + "..."))
	for _, action := range actions {
		if err := action(); err != nil {
			fail(name+" failed", err)
		}
	}
	fmt.Println(successStyle.Render("✓ " + name))
}

func ask(question string) bool {
	options := console.DefaultYesNoOptions()
	options.Prompt = question
	options.DefaultYes = false
	ok, err := console.YesNo(options)
	return err == nil && ok
}

func fail(msg string, err error) {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	fmt.Println(errorStyle.Render(msg))
	os.Exit(1)
}
