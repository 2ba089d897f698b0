// build.go - Sales Heatmap build system
// Usage: go run build.go [-target=TARGET]
// Targets: all, web, processor, clean, test

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

const (
	version = "0.1.0"
	module  = "salesheatmap"
)

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	Race    bool
}

var (
	rootDir string
	distDir string

	// Executable names (key = source dir name, value = output name)
	executables = map[string]string{
		"web":       "sales-heatmap-web",
		"processor": "sales-heatmap-processor",
	}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); os.IsNotExist(err) {
		panic(fmt.Sprintf("go.mod not found in %s, run from the module root", rootDir))
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	race := flag.Bool("race", true, "Run tests with the race detector")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	ctx := &BuildContext{Verbose: *verbose, Race: *race}

	switch *target {
	case "all":
		buildAll(ctx)
	case "web", "processor":
		prepareDirectories(ctx.Verbose)
		buildExecutable(*target, ctx)
	case "clean":
		clean(ctx.Verbose)
	case "test":
		runTests(ctx)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "      Sales Heatmap - Build System        " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

// Build all executables
func buildAll(ctx *BuildContext) {
	printInfo("Building all components...")

	if _, err := exec.LookPath("go"); err != nil {
		printError("Go toolchain not found in PATH")
		os.Exit(1)
	}

	prepareDirectories(ctx.Verbose)
	for name := range executables {
		buildExecutable(name, ctx)
	}
}

func prepareDirectories(verbose bool) {
	if err := os.MkdirAll(distDir, 0755); err != nil {
		printError(fmt.Sprintf("Failed to create %s: %v", distDir, err))
		os.Exit(1)
	}
	if verbose {
		printInfo(fmt.Sprintf("Output directory: %s", distDir))
	}
}

func buildExecutable(name string, ctx *BuildContext) {
	exeName, ok := executables[name]
	if !ok {
		printError(fmt.Sprintf("Unknown executable: %s", name))
		os.Exit(1)
	}
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}

	printInfo(fmt.Sprintf("Building %s...", exeName))

	ldflags := fmt.Sprintf("-s -w -X %s/internal/app.Version=%s -X %s/internal/app.BuildTime=%s",
		module, version, module, time.Now().Format(time.RFC3339))

	args := []string{
		"build",
		"-ldflags", ldflags,
		"-o", filepath.Join(distDir, exeName),
		"./cmd/" + name,
	}
	if ctx.Verbose {
		args = append(args[:1], append([]string{"-v"}, args[1:]...)...)
	}

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Built %s", exeName))
}

func clean(verbose bool) {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printError(fmt.Sprintf("Failed to remove %s: %v", distDir, err))
		os.Exit(1)
	}
	if verbose {
		printInfo(fmt.Sprintf("Removed %s", distDir))
	}
}

func runTests(ctx *BuildContext) {
	printInfo("Running Go tests...")
	args := []string{"test"}
	if ctx.Race {
		args = append(args, "-race")
	}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v] [-race=false]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all        Build the web server and the processor (default)")
	fmt.Println("  web        Build the web server")
	fmt.Println("  processor  Build the processor CLI")
	fmt.Println("  clean      Remove dist/")
	fmt.Println("  test       Run go test ./...")
}
