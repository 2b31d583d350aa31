package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kvit-s/patchkit/internal/config"
	"github.com/kvit-s/patchkit/internal/logging"
	"github.com/kvit-s/patchkit/internal/tools"
	"github.com/kvit-s/patchkit/internal/ui"
	"github.com/kvit-s/patchkit/patch"
)

// exitCodes maps a patch.ErrorCode to its process exit status. Values
// outside this set (path/IO/config errors) exit 1.
var exitCodes = map[patch.ErrorCode]int{
	patch.ErrInvalidDiffFormat:           2,
	patch.ErrOverlappingHunks:            3,
	patch.ErrContextMismatch:             4,
	patch.ErrInsertionRequiresLineNumber: 5,
	patch.ErrInvalidLineRange:            6,
	patch.ErrSearchBlockNotFoundInRange:  7,
	patch.ErrSearchBlockNotFound:         8,
}

func exitCodeFor(err error) int {
	applyErr, ok := err.(*tools.ApplyError)
	if !ok {
		return 1
	}
	if code, ok := exitCodes[patch.ErrorCode(applyErr.Code)]; ok {
		return code
	}
	return 1
}

var (
	version    = "dev"
	commitHash = "dev"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	filePath := flag.String("file", "", "path to the file to patch, relative to the workspace root")
	patchFile := flag.String("patch", "", "path to a file containing the patch text (default: read from stdin)")
	format := flag.String("format", tools.FormatAuto, "patch format: auto, sr, or ud")
	startLine := flag.Int("start-line", 0, "restrict a search-replace match to this 1-based start line (0 = unset)")
	endLine := flag.Int("end-line", 0, "restrict a search-replace match to this 1-based end line (0 = unset)")
	interactive := flag.Bool("interactive", false, "review the computed diff interactively before writing")
	logFile := flag.String("log", "", "structured log file path (empty disables logging)")
	showVersion := flag.Bool("version", false, "show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("patchapply %s (%s)\n", version, commitHash)
		return
	}

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: patchapply -file <path> [-patch <file>] [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var cfg *config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		if !cfg.Tools.Edit.Enabled {
			fmt.Fprintln(os.Stderr, "patch application is disabled (tools.edit.enabled=false in config)")
			os.Exit(1)
		}
	} else {
		cfg = &config.Config{}
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("failed to resolve working directory: %v", err)
		}
		cfg.Workspace.Root = wd
		cfg.Workspace.PathSafetyMode = "warn"
	}

	formatSetExplicitly, interactiveSetExplicitly := false, false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			formatSetExplicitly = true
		case "interactive":
			interactiveSetExplicitly = true
		}
	})
	if !formatSetExplicitly && cfg.Tools.Edit.Mode != "" {
		*format = cfg.Tools.Edit.GetEditMode()
	}
	if !interactiveSetExplicitly && cfg.Tools.Edit.PreviewMode {
		*interactive = true
	}

	effectiveLog := *logFile
	if effectiveLog == "" {
		effectiveLog = cfg.Logging.Path
	}
	logger, err := logging.New(effectiveLog, cfg.Logging.Development)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Close()

	patchText, err := readPatchText(*patchFile)
	if err != nil {
		log.Fatalf("failed to read patch text: %v", err)
	}

	applier := tools.NewApplier(cfg, logger)
	opts := patch.Options{StartLine: *startLine, EndLine: *endLine}

	writer := ui.NewWriter()

	outcome, err := applier.Compute(*filePath, patchText, *format, opts)
	if err != nil {
		writer.Error(err.Error())
		os.Exit(exitCodeFor(err))
	}

	if *interactive {
		if !reviewInteractively(*filePath, outcome.Diff) {
			applier.Discard(outcome)
			writer.Warn("patch rejected during review; no changes written")
			os.Exit(1)
		}
	}

	if err := applier.Commit(outcome); err != nil {
		writer.Error(err.Error())
		os.Exit(1)
	}

	writer.Header(fmt.Sprintf("patched %s", outcome.Path))
	writer.Diff(outcome.Diff)
}

func readPatchText(patchFile string) (string, error) {
	if patchFile == "" || patchFile == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(patchFile)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// reviewInteractively shows the diff in a bubbletea program and blocks
// until the user accepts or rejects it. Nothing is written to disk until
// the caller commits the outcome, so a rejection here leaves the file
// untouched.
func reviewInteractively(path, diff string) bool {
	p := tea.NewProgram(ui.NewReviewModel(path, diff))
	finalModel, err := p.Run()
	if err != nil {
		return false
	}
	return ui.Decision(finalModel) == ui.ReviewAccepted
}
